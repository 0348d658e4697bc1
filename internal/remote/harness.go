package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
)

// Harness implements the TestHarness interface against the gateway's render
// endpoint. Rendering can take a while server-side, so it carries a longer
// timeout than the store.
type Harness struct {
	session    interfaces.Session
	httpClient *http.Client
}

// NewHarness creates a test harness bound to an already-connected session.
func NewHarness(session interfaces.Session) *Harness {
	return &Harness{
		session: session,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type renderRequest struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Document string `json:"document"`
}

// Render uploads a test document and returns the captured artifact for the
// letter in the given language.
func (h *Harness) Render(ctx context.Context, letterPath string, document []byte, language string) ([]byte, error) {
	body, err := json.Marshal(renderRequest{
		Path:     letterPath,
		Language: language,
		Document: string(document),
	})
	if err != nil {
		return nil, errors.NewGenericError("failed to encode render request", err)
	}

	renderURL := strings.TrimSuffix(h.session.BaseURL(), "/") + "/mng/render"
	req, err := http.NewRequestWithContext(ctx, "POST", renderURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewGenericError("failed to create render request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// A slow rendering fails that one pair; only connection-level
		// failures condemn the session.
		if os.IsTimeout(err) {
			return nil, errors.NewRenderError(
				fmt.Sprintf("render of %s [%s] timed out", letterPath, language), err)
		}
		return nil, errors.NewSessionError(fmt.Sprintf("failed to render %s", letterPath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errors.NewSessionError(
			fmt.Sprintf("render of %s returned status %d", letterPath, resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewRenderError(
			fmt.Sprintf("render of %s [%s] failed: %s", letterPath, language, strings.TrimSpace(string(detail))), nil)
	}

	artifact, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewSessionError(fmt.Sprintf("failed to read artifact for %s", letterPath), err)
	}
	return artifact, nil
}
