// Package drive persists snapshots to a single JSON file on Google Drive.
// The whole collection is written on every save; the last writer wins.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"

	"financetracker/internal/core"
	"financetracker/internal/snapshot"
)

type Client struct {
	svc      *gdrive.Service
	fileID   string // resolved lazily when empty
	fileName string
	folderID string
}

// Ensure interface conformance
var _ snapshot.Store = (*Client)(nil)

// NewFromEnv creates a Drive client using environment variables.
// Optional: DRIVE_SNAPSHOT_FILE_ID pins the file directly.
// Optional: DRIVE_SNAPSHOT_NAME (default "finance-tracker.json") and
// DRIVE_FOLDER_ID locate the file by name instead.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS for a service account; or
// GOOGLE_OAUTH_CLIENT_FILE plus GOOGLE_OAUTH_TOKEN_FILE for a user token
// minted by the oauth-init command.
func NewFromEnv(ctx context.Context) (*Client, error) {
	name := strings.TrimSpace(os.Getenv("DRIVE_SNAPSHOT_NAME"))
	if name == "" {
		name = "finance-tracker.json"
	}

	svc, err := newDriveService(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &Client{
		svc:      svc,
		fileID:   strings.TrimSpace(os.Getenv("DRIVE_SNAPSHOT_FILE_ID")),
		fileName: name,
		folderID: strings.TrimSpace(os.Getenv("DRIVE_FOLDER_ID")),
	}, nil
}

func newDriveService(ctx context.Context) (*gdrive.Service, error) {
	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))
	if tokenFile != "" {
		return newDriveServiceFromToken(ctx, tokenFile)
	}

	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_APPLICATION_CREDENTIALS, or GOOGLE_OAUTH_TOKEN_FILE)")
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return service, nil
}

// newDriveServiceFromToken builds the service from an OAuth client config
// and a stored user token, as produced by the oauth-init command.
func newDriveServiceFromToken(ctx context.Context, tokenFile string) (*gdrive.Service, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
	var b []byte
	var err error
	switch {
	case clientJSON != "":
		b = []byte(clientJSON)
	case clientFile != "":
		b, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}

	cfg, err := google.ConfigFromJSON(b, gdrive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	tokBytes, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokBytes, &tok); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}

	service, err := gdrive.NewService(ctx,
		goption.WithHTTPClient(cfg.Client(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return service, nil
}

// LoadAll downloads and decodes the snapshot file. A missing file is not an
// error; it just means no data has been saved yet.
func (c *Client) LoadAll(ctx context.Context) ([]core.MonthlyData, error) {
	if c.svc == nil {
		return nil, errors.New("drive service not initialized")
	}
	id, err := c.resolveFileID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		slog.InfoContext(ctx, "snapshot file not found on drive, starting empty", "name", c.fileName)
		return nil, nil
	}

	resp, err := c.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download snapshot %s: %w", id, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	return snapshot.Decode(data)
}

// SaveAll encodes the collection and replaces the snapshot file contents,
// creating the file on first save.
func (c *Client) SaveAll(ctx context.Context, months []core.MonthlyData) error {
	if c.svc == nil {
		return errors.New("drive service not initialized")
	}
	data, err := snapshot.Encode(months)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	id, err := c.resolveFileID(ctx)
	if err != nil {
		return err
	}

	if id == "" {
		meta := &gdrive.File{Name: c.fileName, MimeType: "application/json"}
		if c.folderID != "" {
			meta.Parents = []string{c.folderID}
		}
		created, err := c.svc.Files.Create(meta).
			Media(bytes.NewReader(data)).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("create snapshot file: %w", err)
		}
		c.fileID = created.Id
		slog.InfoContext(ctx, "created snapshot file on drive", "name", c.fileName, "id", created.Id)
		return nil
	}

	if _, err := c.svc.Files.Update(id, &gdrive.File{}).
		Media(bytes.NewReader(data)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update snapshot file %s: %w", id, err)
	}
	return nil
}

// resolveFileID returns the configured file ID or looks the file up by name,
// caching the answer. Empty means the file does not exist yet.
func (c *Client) resolveFileID(ctx context.Context) (string, error) {
	if c.fileID != "" {
		return c.fileID, nil
	}
	query := fmt.Sprintf("name = '%s' and trashed = false", strings.ReplaceAll(c.fileName, "'", "\\'"))
	if c.folderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", c.folderID)
	}
	list, err := c.svc.Files.List().Q(query).
		Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("search snapshot file: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	c.fileID = list.Files[0].Id
	return c.fileID, nil
}
