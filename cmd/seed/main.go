package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// seedUser is registered (or logged in, when it already exists) to own the
// seeded recipes.
type seedUser struct {
	FirstName   string `json:"firstName"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
}

type authPayload struct {
	Token string `json:"token"`
}

func main() {
	var (
		baseURL  = flag.String("base-url", "http://localhost:8080", "API base URL")
		data     = flag.String("data", "seed-recipes.json", "path to a JSON array of recipe payloads")
		email    = flag.String("email", "seed@jikoni.dev", "seed account email")
		password = flag.String("password", "seed-password", "seed account password")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read seed data: %v", err)
	}

	var recipes []json.RawMessage
	if err := json.Unmarshal(file, &recipes); err != nil {
		log.Fatalf("parse seed data: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := obtainToken(client, *baseURL, *email, *password)
	if err != nil {
		log.Fatalf("authenticate seed user: %v", err)
	}

	created := 0
	for i, recipe := range recipes {
		req, err := http.NewRequest(http.MethodPost, *baseURL+"/api/recipes", bytes.NewReader(recipe))
		if err != nil {
			log.Fatalf("build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("create recipe %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			log.Printf("recipe %d rejected with status %d", i, resp.StatusCode)
			continue
		}
		created++
	}

	log.Printf("seeded %d/%d recipes", created, len(recipes))
}

func obtainToken(client *http.Client, baseURL, email, password string) (string, error) {
	register := seedUser{
		FirstName:   "Seed",
		Surname:     "Account",
		Email:       email,
		Password:    password,
		Gender:      "other",
		PhoneNumber: "0700000000",
	}

	if token, err := postAuth(client, baseURL+"/api/auth/register", register); err == nil {
		return token, nil
	}

	// Account likely exists already; fall back to login.
	login := map[string]string{"email": email, "password": password}
	return postAuth(client, baseURL+"/api/auth/login", login)
}

func postAuth(client *http.Client, endpoint string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("auth endpoint %s returned %d", endpoint, resp.StatusCode)
	}

	var parsed authPayload
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("auth endpoint %s returned no token", endpoint)
	}
	return parsed.Token, nil
}
