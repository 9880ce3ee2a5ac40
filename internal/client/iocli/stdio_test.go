package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnPrintfWrite(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioWith(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s\n", 1, "abc")
	n, err := stdio.Write([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "hello world\ntest 1 abc\nraw", out.String())
}

func TestReadInput_Sequential(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioWith(strings.NewReader("  alice@example.com \nAlice\nlast"), &out)

	email, err := stdio.ReadInput("Email: ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	// Буфер общий, вторая строка не теряется
	name, err := stdio.ReadInput("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	last, err := stdio.ReadInput("Last: ")
	require.NoError(t, err)
	assert.Equal(t, "last", last)

	_, err = stdio.ReadInput("More: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Email: Name: Last: More: ", out.String())
}

func TestReadPassword_NotTerminal(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioWith(strings.NewReader("secret1\n"), &out)

	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret1", password)
	assert.Equal(t, "Password: ", out.String())
}

// Тест ReadInput через pipe вместо os.Stdin
func TestReadInput_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	go func() {
		_, _ = w.Write([]byte("user input\n"))
		_ = w.Close()
	}()

	var out bytes.Buffer
	stdio := NewStdioWith(r, &out)

	result, err := stdio.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", result)

	// pipe не терминал, пароль читается строкой
	_, err = stdio.ReadPassword("Password: ")
	assert.ErrorIs(t, err, io.EOF)
}
