package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	if err != nil {
		t.Fatalf("GetSimpleText err: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(out.String(), "Say something") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("partial"))

	got, err := GetSimpleText(reader, "Prompt", &out)
	if err != nil {
		t.Fatalf("GetSimpleText err: %v", err)
	}
	if got != "partial" {
		t.Fatalf("got %q", got)
	}
}

func TestGetSimpleText_EOFEmpty(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	if _, err := GetSimpleText(reader, "Prompt", &out); err == nil {
		t.Fatalf("want error on empty EOF")
	}
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	if err != nil {
		t.Fatalf("GetPassword err: %v", err)
	}
	if string(pw) != "s3cret" {
		t.Fatalf("got %q", string(pw))
	}
	if !strings.Contains(out.String(), "Enter password") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}
