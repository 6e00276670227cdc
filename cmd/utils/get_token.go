package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"tabelog-sync-service/internal/infrastructure/oauth"
	"tabelog-sync-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Prints a refresh token covering the Gmail, Calendar and Sheets scopes.
// Reads GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET from the environment or .env.
func main() {
	godotenv.Load()

	clientID := os.Getenv("GMAIL_CLIENT_ID")
	clientSecret := os.Getenv("GMAIL_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET must be set")
	}

	googleOAuth := oauth.NewGoogleOAuth(clientID, clientSecret, "", "http://localhost:8090/oauth2callback", logger.NewLogger("info", ""))

	state := uuid.NewString()

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		token, err := googleOAuth.ExchangeCode(context.Background(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to exchange code: %v", err), http.StatusInternalServerError)
			return
		}

		fmt.Printf("\nRefresh Token: %s\n\n", token.RefreshToken)

		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	fmt.Printf("Open this URL in your browser:\n%s\n", googleOAuth.GenerateAuthURL(state))

	log.Fatal(http.ListenAndServe(":8090", nil))
}
