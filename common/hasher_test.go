package common

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestSha256Hasher_KnownDigests(t *testing.T) {
	hasher := NewSha256Hasher()
	tests := []struct {
		input string
		want  string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"a", "ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb"},
	}
	for _, test := range tests {
		if got, want := hasher.Hash([]byte(test.input)), test.want; got != want {
			t.Errorf("wrong digest for %q: got %s, want %s", test.input, got, want)
		}
	}
}

func TestKeccak256Hasher_KnownDigests(t *testing.T) {
	hasher := NewKeccak256Hasher()
	if got, want := hasher.Hash(nil), "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"; got != want {
		t.Errorf("wrong empty digest: got %s, want %s", got, want)
	}
}

func TestHashers_EmptyAndNilInputAgree(t *testing.T) {
	for _, hasher := range []Hasher{NewSha256Hasher(), NewKeccak256Hasher()} {
		if got, want := hasher.Hash(nil), hasher.Hash([]byte{}); got != want {
			t.Errorf("nil and empty input disagree: %s vs %s", got, want)
		}
	}
}

func TestHashers_OutputShape(t *testing.T) {
	for _, hasher := range []Hasher{NewSha256Hasher(), NewKeccak256Hasher()} {
		digest := hasher.Hash([]byte("some input"))
		if got, want := len(digest), HashHexLength; got != want {
			t.Errorf("wrong digest length: got %d, want %d", got, want)
		}
		if digest != strings.ToLower(digest) {
			t.Errorf("digest is not lowercase: %s", digest)
		}
	}
}

func TestSha256Hasher_ConcurrentUseIsConsistent(t *testing.T) {
	hasher := NewSha256Hasher()
	const N = 100
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < N; j++ {
				input := []byte(fmt.Sprintf("input-%d", j))
				if got, want := hasher.Hash(input), hasher.Hash(input); got != want {
					t.Errorf("non-deterministic digest for %s: %s vs %s", input, got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
