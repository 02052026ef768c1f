package storage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"pinpost-api/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient implements Storage on top of Google Drive using a refresh-token
// OAuth2 credential.
type DriveClient struct {
	svc          *drive.Service
	rootFolderID string
}

// NewDriveClient builds a Drive-backed Storage from application configuration.
func NewDriveClient(ctx context.Context, cfg config.AppConfig) (*DriveClient, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.DriveClientID,
		ClientSecret: cfg.DriveClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}
	token := &oauth2.Token{RefreshToken: cfg.DriveRefreshToken}
	client := oauthCfg.Client(ctx, token)

	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("init drive service: %w", err)
	}

	return &DriveClient{svc: svc, rootFolderID: cfg.DriveRootFolderID}, nil
}

// CreateFolder creates a folder under the configured root folder.
func (d *DriveClient) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}
	if d.rootFolderID != "" {
		meta.Parents = []string{d.rootFolderID}
	}

	created, err := d.svc.Files.Create(meta).Fields("id", "name").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, err)
	}
	return &Folder{ID: created.Id, Name: created.Name}, nil
}

// UploadMany uploads all files into the given folder. It fails on the first
// upload error; files already uploaded in the batch are left in place.
func (d *DriveClient) UploadMany(ctx context.Context, uploads []Upload, folderID string) ([]*File, error) {
	files := make([]*File, 0, len(uploads))
	for _, up := range uploads {
		meta := &drive.File{
			Name:    up.Name,
			Parents: []string{folderID},
		}
		created, err := d.svc.Files.Create(meta).
			Media(up.Content, googleapi.ContentType(up.ContentType)).
			Fields("id", "name", "webViewLink").
			Context(ctx).
			Do()
		if err != nil {
			return files, fmt.Errorf("upload %q: %w", up.Name, err)
		}
		files = append(files, &File{ID: created.Id, Name: created.Name, WebViewLink: created.WebViewLink})
	}
	return files, nil
}

// Delete removes a file by id.
func (d *DriveClient) Delete(ctx context.Context, fileID string) error {
	if err := d.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}

// ViewURL returns the public view link for an uploaded file, preferring the
// link reported by Drive.
func ViewURL(f *File) string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.ID)
}
