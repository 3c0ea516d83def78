package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Shared client with a cookie jar so the session cookie survives across calls.
var client *http.Client

func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func action(payload map[string]interface{}) (*http.Response, []byte, error) {
	return sendRequest("POST", "/notebook/v1/action", payload)
}

func main() {
	jar, _ := cookiejar.New(nil)
	client = &http.Client{Jar: jar}

	slug := "smoke-test-notebook"
	password := "hunter2"

	color.Cyan("🚀 Starting Notebook API Smoke Test\n")

	// 1. Fresh notebook state
	color.Yellow("\n1. GET state of a notebook that does not exist yet")
	resp, body, err := sendRequest("GET", "/notebook/v1/"+slug, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 2. Create it
	color.Yellow("\n2. Create notebook")
	resp, body, err = action(map[string]interface{}{
		"action":           "create_note",
		"id":               slug,
		"password":         password,
		"confirm_password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 3. Save content (creator is already authenticated)
	color.Yellow("\n3. Save content")
	resp, body, err = action(map[string]interface{}{
		"action":  "save_note",
		"id":      slug,
		"content": "# Smoke Test\n\nHello from the smoke runner.",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 4. Log out, then verify the password the way a returning owner would
	color.Yellow("\n4. Logout and verify password")
	if _, _, err = sendRequest("GET", "/notebook/v1/"+slug+"/logout", nil); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	resp, body, err = action(map[string]interface{}{
		"action":   "verify_password",
		"id":       slug,
		"password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 5. Wrong password must get the generic rejection
	color.Yellow("\n5. Verify with a wrong password")
	resp, body, err = action(map[string]interface{}{
		"action":   "verify_password",
		"id":       slug,
		"password": "not-the-password",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 6. Flip settings and read public status back
	color.Yellow("\n6. Update settings and public flag")
	for _, payload := range []map[string]interface{}{
		{"action": "update_settings", "id": slug, "always_require_password": true},
		{"action": "update_public", "id": slug, "ispublic": true},
		{"action": "get_public_status", "id": slug},
	} {
		resp, body, err = action(payload)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(body)
	}

	color.Cyan("\n✅ Smoke test finished")
}
