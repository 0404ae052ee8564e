package kv

import (
	"context"
	"testing"
)

func TestS3StoreContract(t *testing.T) {
	store := NewS3MockForTests()
	runStoreContract(t, store)
	if store.Driver() != DriverS3 {
		t.Fatalf("driver = %q", store.Driver())
	}
}

func TestS3GetMissingKeyIsNotAnError(t *testing.T) {
	store := NewS3MockForTests()

	_, ok, err := store.Get(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("missing key surfaced as error: %v", err)
	}
	if ok {
		t.Fatalf("missing key reported present")
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{Region: "us-east-1"})
	if err == nil {
		t.Fatalf("config without bucket accepted")
	}
}
