package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"reflect"
	"testing"
)

func TestStringSet_PutDuplicate(t *testing.T) {
	set := NewStringSet("a", "b", "a")

	if set.Size() != 2 {
		t.Errorf("Expected size 2 after duplicate, got %d", set.Size())
	}
	if !set.Has("a") || set.Has("c") {
		t.Error("Unexpected membership")
	}
}

func TestStringSet_ChecksumOrderIndependent(t *testing.T) {
	first := NewStringSet("10.0.0.1", "portal.example.com", "AABBCCDDEEFF")
	second := NewStringSet("AABBCCDDEEFF", "10.0.0.1", "portal.example.com", "10.0.0.1")

	if first.Checksum() != second.Checksum() {
		t.Errorf("Expected equal checksums, got %s and %s", first.Checksum(), second.Checksum())
	}

	second.Put("extra")
	if first.Checksum() == second.Checksum() {
		t.Error("Expected checksum to change after adding an entry")
	}
}

func TestStringSet_ChecksumValue(t *testing.T) {
	hasher := md5.New()
	hasher.Write([]byte("a\nb\n"))
	expected := hex.EncodeToString(hasher.Sum(nil))

	if got := NewStringSet("b", "a").Checksum(); got != expected {
		t.Errorf("Expected checksum %s, got %s", expected, got)
	}

	// MD5 of empty string
	if got := NewStringSet().Checksum(); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Unexpected empty checksum %s", got)
	}
}

func TestStringSet_Difference(t *testing.T) {
	applied := NewStringSet("a", "b")
	reloaded := NewStringSet("c", "b", "d")

	if got := reloaded.Difference(applied); !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("Difference = %v", got)
	}
	if got := reloaded.Difference(nil); !reflect.DeepEqual(got, []string{"b", "c", "d"}) {
		t.Errorf("Difference(nil) = %v", got)
	}
	if got := applied.Difference(NewStringSet("a", "b")); got != nil {
		t.Errorf("Expected no difference, got %v", got)
	}
}
