package printer

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_KeyValueFitsWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Subtotal:", "1100.00")
	doc.KeyValue("A very long label that overflows", "12.50")

	lines := bytes.Split(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}), []byte{LF})
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Subtotal:    1100.00", string(lines[0]))
	assert.Len(t, lines[1], 20)
	assert.True(t, bytes.HasSuffix(lines[1], []byte(" 12.50")))
}

func TestDocument_ItemLine(t *testing.T) {
	doc := NewDocument(Width58mm)
	doc.ItemLine(2, "Hair Spa", decimal.RequireFromString("1000"))

	out := string(doc.Bytes())
	assert.Contains(t, out, "2x Hair Spa")
	assert.Contains(t, out, "1000.00\n")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "-0.40", Money(decimal.RequireFromString("-0.4")))
	assert.Equal(t, "235.00", Money(decimal.NewFromInt(235)))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, KindNone, p.Kind())

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)
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
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		received <- buf.Bytes()
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	doc := NewDocument(Width58mm).Text("hello").Cut()
	require.NoError(t, p.Print(context.Background(), doc.Bytes()))

	assert.Equal(t, doc.Bytes(), <-received)
}
