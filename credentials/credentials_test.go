package credentials

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// well-known development storage account, not a live secret
const (
	testAccountName = "devstoreaccount1"
	testAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

func TestNew(t *testing.T) {
	creds, err := New(testAccountName, testAccountKey)
	if err != nil {
		t.Fatalf("expect no err, got %v", err)
	}
	if expect, actual := testAccountName, creds.AccountName; expect != actual {
		t.Errorf("account name %q != %q", expect, actual)
	}
}

func TestNew_InvalidKey(t *testing.T) {
	_, err := New(testAccountName, "not base64!")
	if err == nil {
		t.Fatal("expect err, got none")
	}
	if !strings.Contains(err.Error(), "decode account key") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestComputeHMACSHA256(t *testing.T) {
	creds, err := New(testAccountName, testAccountKey)
	if err != nil {
		t.Fatalf("expect no err, got %v", err)
	}

	expect := "/n6C9WmBYgI7aaA14OFeCg9kfvCKBNrzjFz1mmaQhis="
	if actual := creds.ComputeHMACSHA256("message to sign"); expect != actual {
		t.Errorf("signature %q != %q", expect, actual)
	}
}

func TestKeyMaterialRedacted(t *testing.T) {
	creds, err := New(testAccountName, testAccountKey)
	if err != nil {
		t.Fatalf("expect no err, got %v", err)
	}

	if s := fmt.Sprintf("%v %+v %s", creds, creds, creds); strings.Contains(s, testAccountKey) {
		t.Error("formatted credential leaks key material")
	}

	data, err := json.Marshal(creds)
	if err != nil {
		t.Fatalf("expect no err, got %v", err)
	}
	if strings.Contains(string(data), testAccountKey) {
		t.Error("marshaled credential leaks key material")
	}
}
