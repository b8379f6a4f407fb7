package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func stubTerminal(t *testing.T, terminal bool, read func(int) ([]byte, error)) {
	t.Helper()
	oldRead, oldIs, oldFd := readPassword, isTerminal, stdinFd
	t.Cleanup(func() { readPassword, isTerminal, stdinFd = oldRead, oldIs, oldFd })
	stdinFd = func() int { return 0 }
	isTerminal = func(int) bool { return terminal }
	if read != nil {
		readPassword = read
	}
}

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  alice  \n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Username", &out)
	if err != nil || got != "alice" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Username\n> " {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	got, err := GetSimpleText(in, "Name?", io.Discard)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Name?", io.Discard)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"sure":  false,
	}
	for in, want := range tests {
		var out bytes.Buffer
		got, err := Confirm(bufio.NewReader(strings.NewReader(in)), "Resubmit?", &out)
		if err != nil || got != want {
			t.Fatalf("%q: got %v, err=%v", in, got, err)
		}
		if !strings.Contains(out.String(), "Resubmit? (y/N)") {
			t.Fatalf("unexpected prompt %q", out.String())
		}
	}
}

func TestGetMultiline_EmptyLineEnds(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\nnext command\n"))
	got, err := GetMultiline(in, "Entry", io.Discard)
	if err != nil || got != "a\nb" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	rest, _ := in.ReadString('\n')
	if rest != "next command\n" {
		t.Fatalf("reader advanced too far, rest %q", rest)
	}
}

func TestGetMultiline_DotEnds(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("today was calm\n.\n"))
	got, err := GetMultiline(in, "Entry", io.Discard)
	if err != nil || got != "today was calm" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_CRLFAndEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  first line\r\nsecond line  \r\nthird"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Entry", &out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "first line\nsecond line  \nthird"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !strings.Contains(out.String(), "at least 20 characters") {
		t.Fatalf("hint not written: %q", out.String())
	}
}

func TestGetMultiline_ClosedInput(t *testing.T) {
	_, err := GetMultiline(bufio.NewReader(strings.NewReader("")), "Entry", io.Discard)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return []byte("s3cret"), nil })

	var out bytes.Buffer
	pw, err := GetPassword(bufio.NewReader(strings.NewReader("ignored\n")), "Password", &out)
	if err != nil || string(pw) != "s3cret" {
		t.Fatalf("got %q, err=%v", pw, err)
	}
	if out.String() != "Password: \n" {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	if _, err := GetPassword(bufio.NewReader(strings.NewReader("")), "Password", io.Discard); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPassword_PipedInput(t *testing.T) {
	stubTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read on piped input")
		return nil, nil
	})

	pw, err := GetPassword(bufio.NewReader(strings.NewReader("hunter22\n")), "Password", io.Discard)
	if err != nil || string(pw) != "hunter22" {
		t.Fatalf("got %q, err=%v", pw, err)
	}
}
