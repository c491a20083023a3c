package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hyperjump/kioku/internal/cli"
	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/internal/study"
)

var httpClient = &http.Client{Timeout: 2 * time.Minute}

// doJSON sends body (if non-nil) as JSON and decodes the response into out when the
// status matches want. Other statuses become errors carrying the server's message.
func doJSON(method, rawURL string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return serverError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func serverError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
}

func documentURL(serverURL, id string, parts ...string) string {
	u := serverURL + "/api/v1/documents/" + url.PathEscape(id)
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

func queryViaHTTP(serverURL, docID string, query *models.ChunkQuery) (*models.QueryResponse, error) {
	var response models.QueryResponse
	if err := doJSON(http.MethodPost, documentURL(serverURL, docID, "query"), query, http.StatusOK, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

type flashCardsResponse struct {
	Count      int                 `json:"count"`
	FlashCards []*models.FlashCard `json:"flashcards"`
}

func generateFlashCardsViaHTTP(serverURL, docID string, req *study.FlashCardRequest) ([]*models.FlashCard, error) {
	var out flashCardsResponse
	if err := doJSON(http.MethodPost, documentURL(serverURL, docID, "flashcards"), req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return out.FlashCards, nil
}

func listFlashCardsViaHTTP(serverURL, docID string) ([]*models.FlashCard, error) {
	var out flashCardsResponse
	if err := doJSON(http.MethodGet, documentURL(serverURL, docID, "flashcards"), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.FlashCards, nil
}

func listDocumentsViaHTTP(serverURL, q string, offset, limit int) ([]*models.Document, error) {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	var out struct {
		Documents []*models.Document `json:"documents"`
	}
	if err := doJSON(http.MethodGet, serverURL+"/api/v1/documents?"+params.Encode(), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

func statusViaHTTP(serverURL string) (*cli.StatusReport, error) {
	var s cli.StatusReport
	if err := doJSON(http.MethodGet, serverURL+"/api/v1/status", nil, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func watchAddViaHTTP(serverURL, path string) error {
	body := map[string]interface{}{"path": path, "sync": true}
	return doJSON(http.MethodPost, serverURL+"/api/v1/watch/directories", body, http.StatusCreated, nil)
}

func watchRemoveViaHTTP(serverURL, path string) error {
	return doJSON(http.MethodDelete, serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil, http.StatusOK, nil)
}

func watchListViaHTTP(serverURL string) ([]string, error) {
	var out struct {
		Directories []string `json:"directories"`
	}
	if err := doJSON(http.MethodGet, serverURL+"/api/v1/watch/directories", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Directories, nil
}
