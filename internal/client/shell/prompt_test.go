package shell

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophStay/internal/client/form"
)

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  Cali  \n"), &out)

	got, err := p.Ask("City: ")
	require.NoError(t, err)
	assert.Equal(t, "Cali", got)
	assert.Equal(t, "City: ", out.String())

	_, err = p.Ask("Again: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_AskInt(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("two\n2\n\n"), &out)

	n, err := p.AskInt("Guests: ")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), `"two" is not a number`)

	n, err = p.AskInt("Guests: ")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrompter_AskDefaultAndList(t *testing.T) {
	p := NewPrompter(strings.NewReader("\nWIFI, KITCHEN ,,\n"), io.Discard)

	got, err := p.AskDefault("Title: ", "Casa")
	require.NoError(t, err)
	assert.Equal(t, "Casa", got)

	list, err := p.AskList("Amenities: ")
	require.NoError(t, err)
	assert.Equal(t, []string{"WIFI", "KITCHEN"}, list)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.in), io.Discard)
		got, err := p.Confirm(context.Background(), "Sure?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestPrompter_FormErrors(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &out)
	p.FormErrors(form.Errors{
		Group:  []string{form.CodeInvalidDateRange},
		Fields: map[string][]string{"email": {"email"}, "city": {"required"}},
	})
	assert.Equal(t,
		"  ! check-out must be after check-in\n  ! city: required\n  ! email: email\n",
		out.String())
}
