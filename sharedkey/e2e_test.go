//go:build e2e
// +build e2e

package sharedkey

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/natekimball-msft/azure-http-auth/credentials"
	"github.com/natekimball-msft/azure-http-auth/transport"
)

type BlobServiceClient struct {
	AccountName string

	Client *transport.SigningClient
}

type ListContainersResult struct {
	XMLName    xml.Name `xml:"EnumerationResults"`
	Containers []struct {
		Name string `xml:"Name"`
	} `xml:"Containers>Container"`
}

// all of these method definitions would be very repetitive in a full
// client, it would be useful if there was some sort of API model we could
// generate code from...
func (c *BlobServiceClient) ListContainers(ctx context.Context) (*ListContainersResult, error) {
	endpt := fmt.Sprintf("https://%s.blob.core.windows.net/?comp=list", c.AccountName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpt, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new http request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request error: %s: %s", resp.Status, data)
	}

	var out ListContainersResult
	if err := xml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("deserialize response: %w", err)
	}

	return &out, nil
}

func TestE2E_ListContainers(t *testing.T) {
	account := os.Getenv("AZURE_STORAGE_ACCOUNT")
	key := os.Getenv("AZURE_STORAGE_KEY")
	if account == "" || key == "" {
		t.Skip("AZURE_STORAGE_ACCOUNT / AZURE_STORAGE_KEY not set")
	}

	creds, err := credentials.New(account, key)
	if err != nil {
		t.Fatalf("new credentials: %v", err)
	}

	signer := New()
	svc := &BlobServiceClient{
		AccountName: account,
		Client: &transport.SigningClient{
			Client: http.DefaultClient,
			Sign: func(r *http.Request) error {
				return signer.SignRequest(&SignRequestInput{
					Request:     r,
					Credentials: creds,
				})
			},
			APIVersion: "2020-04-08",
		},
	}

	out, err := svc.ListContainers(context.Background())
	if err != nil {
		t.Fatalf("list containers: %v", err)
	}

	t.Logf("account has %d containers", len(out.Containers))
}
