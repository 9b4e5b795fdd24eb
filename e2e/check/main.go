package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

// Manual probe for the forward-auth endpoint. Run the gateway, then:
//
//	go run ./e2e/check <root-key> [addr]
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <root-key> [server-addr]", os.Args[0])
	}

	rootKey := os.Args[1]
	serverAddr := "http://localhost:8080"
	if len(os.Args) > 2 {
		serverAddr = os.Args[2]
	}

	req, err := http.NewRequest(http.MethodGet, serverAddr+"/authz/rootkey/test", nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+rootKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("Authorization ALLOWED")
		for _, h := range []string{"X-Unkey-Key-Id", "X-Unkey-Api-Id", "X-Unkey-Owner-Id", "X-Unkey-Remaining"} {
			if v := resp.Header.Get(h); v != "" {
				fmt.Printf("  %s: %s\n", h, v)
			}
		}
		return
	}

	fmt.Println("Authorization DENIED")
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Body: %s\n", string(body))
}
