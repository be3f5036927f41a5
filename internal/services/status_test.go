package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemc-uz/bytemc-backend/internal/store"
)

// statusServer speaks the server side of the Server List Ping exchange:
// length-prefixed packets of varint-framed fields. It serves one response
// JSON per accepted connection, in order.
type statusServer struct {
	listener  net.Listener
	responses []string
}

func newStatusServer(t *testing.T, responses []string) (*statusServer, string, int) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	s := &statusServer{listener: l, responses: responses}
	go s.serve()

	addr := l.Addr().(*net.TCPAddr)
	return s, addr.IP.String(), addr.Port
}

func (s *statusServer) serve() {
	for _, response := range s.responses {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.handle(conn, response)
	}
}

func (s *statusServer) handle(conn net.Conn, response string) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	// handshake then status request
	if _, err := readTestPacket(conn); err != nil {
		return
	}
	if _, err := readTestPacket(conn); err != nil {
		return
	}

	var payload bytes.Buffer
	writeTestVarInt(&payload, 0x00)
	writeTestVarInt(&payload, len(response))
	payload.WriteString(response)
	writeTestPacket(conn, payload.Bytes())

	// some clients follow up with a ping packet; echo it back
	if pong, err := readTestPacket(conn); err == nil && len(pong) > 0 && pong[0] == 0x01 {
		writeTestPacket(conn, pong)
	}
}

func writeTestVarInt(buf *bytes.Buffer, n int) {
	v := uint32(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func readTestVarInt(r io.Reader) (int, error) {
	var result uint32
	var one [1]byte
	for i := 0; i < 5; i++ {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return 0, err
		}
		result |= uint32(one[0]&0x7f) << (7 * i)
		if one[0]&0x80 == 0 {
			return int(int32(result)), nil
		}
	}
	return 0, fmt.Errorf("varint too long")
}

func writeTestPacket(conn net.Conn, payload []byte) {
	var frame bytes.Buffer
	writeTestVarInt(&frame, len(payload))
	frame.Write(payload)
	conn.Write(frame.Bytes())
}

func readTestPacket(conn net.Conn) ([]byte, error) {
	n, err := readTestVarInt(conn)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 1<<20 {
		return nil, fmt.Errorf("packet length %d out of range", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func statusJSON(online int, names ...string) string {
	sample := ""
	for i, name := range names {
		if i > 0 {
			sample += ","
		}
		sample += fmt.Sprintf(`{"name":%q,"id":"c06f8906-4c8a-4911-9c29-ea1d%08d"}`, name, i)
	}
	return fmt.Sprintf(`{"version":{"name":"Paper 1.21","protocol":767},`+
		`"players":{"online":%d,"max":100,"sample":[%s]},`+
		`"description":{"text":"ByteMC"}}`, online, sample)
}

func TestSnapshotRecordsSampledPlayersOnce(t *testing.T) {
	_, host, port := newStatusServer(t, []string{
		statusJSON(2, "Steve", "Alex"),
		statusJSON(2, "Steve", "Notch"),
	})

	st, err := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	svc := &StatusService{Store: st, Host: host, Port: port}

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.OnlinePlayers)
	assert.Equal(t, 100, first.MaxPlayers)
	assert.Equal(t, []string{"Steve", "Alex"}, first.SamplePlayers)
	assert.Equal(t, 2, first.TotalSeen)

	// Steve repeats in the second sample and must not be recorded twice
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Steve", "Notch"}, second.SamplePlayers)
	assert.Equal(t, 3, second.TotalSeen)

	doc, err := st.Read()
	require.NoError(t, err)
	require.Len(t, doc.PlayersSeen, 3)
	steves := 0
	for _, p := range doc.PlayersSeen {
		if p.Player == "Steve" {
			steves++
		}
		_, err := time.Parse(time.RFC3339, p.FirstSeen)
		assert.NoError(t, err, "first_seen is a timestamp")
	}
	assert.Equal(t, 1, steves)
}

func TestSnapshotUnreachableServer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	st, err := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	svc := &StatusService{Store: st, Host: "127.0.0.1", Port: port}

	_, err = svc.Snapshot(context.Background())
	assert.Error(t, err)
}
