package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
)

// Store implements the TemplateStore interface against the gateway's letter
// endpoints. All calls go through the injected session's base URL; transport
// failures surface as session errors so callers abandon the remaining batch.
type Store struct {
	session    interfaces.Session
	httpClient *http.Client
}

// NewStore creates a template store bound to an already-connected session.
func NewStore(session interfaces.Session) *Store {
	return &Store{
		session: session,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// List returns every letter entry known to the gateway.
func (s *Store) List(ctx context.Context) ([]interfaces.LetterEntry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.lettersURL(""), nil)
	if err != nil {
		return nil, errors.NewGenericError("failed to create list request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewSessionError("failed to list remote letters", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list", resp.StatusCode)
	}

	var entries []interfaces.LetterEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.NewGenericError("failed to parse letter list", err)
	}
	return entries, nil
}

// Fetch returns the remote contents of one letter.
func (s *Store) Fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.lettersURL(path), nil)
	if err != nil {
		return nil, errors.NewGenericError("failed to create fetch request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewSessionError(fmt.Sprintf("failed to fetch %s", path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewRemoteNotFoundError(fmt.Sprintf("no remote letter %s", path))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetch", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewSessionError(fmt.Sprintf("failed to read %s", path), err)
	}
	return data, nil
}

// Put overwrites or creates the remote entry for one letter.
func (s *Store) Put(ctx context.Context, path string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", s.lettersURL(path), bytes.NewReader(data))
	if err != nil {
		return errors.NewGenericError("failed to create put request", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.NewSessionError(fmt.Sprintf("failed to put %s", path), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewRemoteRejectedError(
			fmt.Sprintf("gateway rejected %s: %s", path, strings.TrimSpace(string(detail))), nil)
	default:
		return statusError("put", resp.StatusCode)
	}
}

// lettersURL builds the letters endpoint URL, with the letter path escaped as
// a single segment when present.
func (s *Store) lettersURL(path string) string {
	base := strings.TrimSuffix(s.session.BaseURL(), "/") + "/mng/letters"
	if path == "" {
		return base
	}
	return base + "/" + url.PathEscape(path)
}

// statusError maps unexpected gateway statuses. Server-side statuses mean the
// session is no longer trustworthy for the rest of the batch.
func statusError(operation string, status int) error {
	if status >= http.StatusInternalServerError {
		return errors.NewSessionError(fmt.Sprintf("%s returned status %d", operation, status), nil)
	}
	return errors.NewGenericError(fmt.Sprintf("%s returned status %d", operation, status), nil)
}
