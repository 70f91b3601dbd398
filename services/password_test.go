package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	blackList := map[string]bool{"Password1!": true}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng.pass", false},
		{"too short", "Ab1!", true},
		{"no uppercase", "weakpass1!", true},
		{"no digit", "Weakpass!!", true},
		{"no special char", "Weakpass11", true},
		{"blacklisted", "Password1!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, blackList)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestLoadBlackList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	if err := os.WriteFile(path, []byte("123456\npassword\nqwerty\n"), 0600); err != nil {
		t.Fatal(err)
	}

	blackList, err := LoadBlackList(path)
	if err != nil {
		t.Fatalf("LoadBlackList() error = %v", err)
	}
	if len(blackList) != 3 {
		t.Errorf("len = %d, want 3", len(blackList))
	}
	if !blackList["qwerty"] {
		t.Error("qwerty not loaded")
	}
	if blackList["Str0ng.pass"] {
		t.Error("unexpected entry")
	}
}

func TestLoadBlackListMissingFile(t *testing.T) {
	if _, err := LoadBlackList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("LoadBlackList() on missing file succeeded")
	}
}
