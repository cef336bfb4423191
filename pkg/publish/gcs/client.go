package gcs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const tokenFileName = ".smsxml2html-gcp-token.json"

// NewClient authenticates with a service account file when given, otherwise with an installed-app
// OAuth client whose token is cached in the home directory.
func NewClient(ctx context.Context, serviceAccountCredentialFile, oauthClientCredentialFile string) (*storage.Client, error) {
	if len(serviceAccountCredentialFile) > 0 {
		return storage.NewClient(ctx,
			option.WithCredentialsFile(serviceAccountCredentialFile),
		)
	}
	if len(oauthClientCredentialFile) == 0 {
		return nil, errors.New("a service account or OAuth client credential file is required")
	}

	b, err := os.ReadFile(oauthClientCredentialFile)
	if err != nil {
		return nil, errors.WithMessage(err, "could not read OAuth client credentials")
	}

	config, err := google.ConfigFromJSON(b, storage.ScopeReadWrite)
	if err != nil {
		return nil, errors.WithMessage(err, "could not parse OAuth client credentials")
	}
	token, err := getToken(ctx, config)
	if err != nil {
		return nil, err
	}

	return storage.NewClient(ctx,
		option.WithTokenSource(config.TokenSource(ctx, token)),
	)
}

func tokenPath() string {
	dir := os.Getenv("HOME")
	if len(dir) == 0 {
		dir = "./"
	}
	return filepath.Join(dir, tokenFileName)
}

// getToken returns the cached token, or asks for an authorization code and caches the result.
func getToken(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	path := tokenPath()
	if tok, err := tokenFromFile(path); err == nil {
		return tok, nil
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, errors.WithMessage(err, "could not read authorization code")
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, errors.WithMessage(err, "could not retrieve token")
	}
	saveToken(path, tok)
	return tok, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) {
	log.Infof("Saving credential file to: %s", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		log.WithError(err).Error("unable to cache oauth token")
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		log.WithError(err).Error("unable to cache oauth token")
	}
}
