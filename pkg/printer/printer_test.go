package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharsForPaper(t *testing.T) {
	assert.Equal(t, 32, CharsForPaper(58))
	assert.Equal(t, 48, CharsForPaper(80))
	assert.Equal(t, 32, CharsForPaper(0))
}

func lines(d *Document) []string {
	// Strip the init sequence then split on LF.
	body := bytes.TrimPrefix(d.Bytes(), []byte{ESC, '@'})
	return strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
}

func TestDocument_Columns(t *testing.T) {
	d := NewDocument(20).Columns("Subtotal", "10.00")
	got := lines(d)
	require.Len(t, got, 1)
	assert.Equal(t, "Subtotal       10.00", got[0])
	assert.Len(t, got[0], 20)

	d = NewDocument(12).Columns("A very long label", "1.00")
	got = lines(d)
	assert.Equal(t, "A very  1.00", got[0])
}

func TestDocument_ItemWrapsLongNames(t *testing.T) {
	d := NewDocument(20).Item(2, "Grilled chicken sandwich", "9.00")
	got := lines(d)
	require.Len(t, got, 3)
	assert.Equal(t, "2x Grilled      9.00", got[0])
	assert.Equal(t, "   chicken", got[1])
	assert.Equal(t, "   sandwich", got[2])
}

func TestOpen(t *testing.T) {
	_, err := Open(Config{Connection: ConnUSB})
	assert.Error(t, err)
	_, err = Open(Config{Connection: ConnNetwork})
	assert.Error(t, err)
	_, err = Open(Config{Connection: "bluetooth"})
	assert.Error(t, err)

	p, err := Open(Config{Connection: ConnNone})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Print(context.Background(), []byte("x")), ErrNotConfigured)
	assert.False(t, p.Connected(context.Background()))
}

func TestWithDefaultPort(t *testing.T) {
	assert.Equal(t, "10.0.0.5:9100", withDefaultPort("10.0.0.5"))
	assert.Equal(t, "10.0.0.5:9200", withDefaultPort("10.0.0.5:9200"))
}

func TestNetworkPrinter_Print(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		received <- b
	}()

	p, err := Open(Config{Connection: ConnNetwork, Address: ln.Addr().String()})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte("hello")))
	assert.Equal(t, []byte("hello"), <-received)
}
