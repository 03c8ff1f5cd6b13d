package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/agentland/agentland-go/internal/errors"
)

// UploadReceipt acknowledges one file upload.
type UploadReceipt struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	Size       int64  `json:"size"`
}

// DownloadInfo describes a completed file download.
type DownloadInfo struct {
	SourcePath string `json:"source_path"`
	SavePath   string `json:"save_path"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size"`
}

// filePathHeader carries the gateway's resolved source path on downloads.
const filePathHeader = "X-Agentland-File-Path"

// Upload sends a local file into the sandbox as multipart form data.
func (f *FS) Upload(ctx context.Context, localFile, targetPath string) (*UploadReceipt, error) {
	local := strings.TrimSpace(localFile)
	if local == "" {
		return nil, &errors.APIError{Msg: "file is required"}
	}

	target := strings.TrimSpace(targetPath)
	if target == "" {
		return nil, &errors.APIError{Msg: "target_file_path is required"}
	}

	content, err := os.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("read local file: %w", err)
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	if err := writer.SetBoundary("----agentland-" + strings.ReplaceAll(uuid.NewString(), "-", "")); err != nil {
		return nil, fmt.Errorf("set multipart boundary: %w", err)
	}

	if err := writer.WriteField("target_file_path", target); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}

	part, err := writer.CreateFormFile("file", filepath.Base(local))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}

	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	resp, err := f.sandbox.client.do(ctx, "POST", "/api/code-runner/fs/upload",
		f.sandbox.ID, nil, writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	out := &UploadReceipt{}
	if err := unwrapEnvelope(resp, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Download fetches a sandbox file and writes it to savePath, creating parent
// directories as needed. The returned file name prefers the gateway's
// Content-Disposition over the local name.
func (f *FS) Download(ctx context.Context, remotePath, savePath string) (*DownloadInfo, error) {
	remote := strings.TrimSpace(remotePath)
	if remote == "" {
		return nil, &errors.APIError{Msg: "path is required"}
	}

	local := strings.TrimSpace(savePath)
	if local == "" {
		return nil, &errors.APIError{Msg: "save_path is required"}
	}

	query := url.Values{}
	query.Set("path", remote)

	resp, err := f.sandbox.client.do(ctx, "GET", "/api/code-runner/fs/download",
		f.sandbox.ID, query, "", nil)
	if err != nil {
		return nil, err
	}

	if parent := filepath.Dir(local); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("create save directory: %w", err)
		}
	}

	if err := os.WriteFile(local, resp.body, 0o644); err != nil {
		return nil, fmt.Errorf("write downloaded file: %w", err)
	}

	fileName := dispositionFileName(resp.header.Get("Content-Disposition"))
	if fileName == "" {
		fileName = filepath.Base(local)
	}

	sourcePath := resp.header.Get(filePathHeader)
	if sourcePath == "" {
		sourcePath = remote
	}

	return &DownloadInfo{
		SourcePath: sourcePath,
		SavePath:   local,
		FileName:   fileName,
		Size:       int64(len(resp.body)),
	}, nil
}

func dispositionFileName(disposition string) string {
	if disposition == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}

	return params["filename"]
}
