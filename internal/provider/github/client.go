package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/iconbridge/internal/codec"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"golang.org/x/oauth2"
)

type Client struct {
	client *github.Client
}

// NewClient authenticates with a personal access token sent as a bearer
// token. An empty baseURL targets api.github.com.
func NewClient(token string, baseURL string) (*Client, error) {
	base := &http.Client{Transport: common.NewLoggingTransport(nil)}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid GitHub API URL '%s'", common.ErrInvalidInput, baseURL)
		}
		client.BaseURL = u
	}

	return &Client{client: client}, nil
}

// ListFiles returns every blob of the branch tree.
func (c *Client) ListFiles(ctx context.Context, owner, repo, branch string) ([]common.RemoteFile, error) {
	tree, _, err := c.client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository tree: %w", err)
	}
	if tree.GetTruncated() {
		return nil, fmt.Errorf("%w: keep the icon repository smaller or target a narrower branch", common.ErrTruncatedListing)
	}

	files := make([]common.RemoteFile, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" || entry.GetPath() == "" {
			continue
		}
		files = append(files, common.RemoteFile{
			Path: entry.GetPath(),
			SHA:  entry.GetSHA(),
		})
	}
	return files, nil
}

func (c *Client) GetBlobText(ctx context.Context, owner, repo, sha string) (string, error) {
	blob, _, err := c.client.Git.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return "", fmt.Errorf("failed to get blob: %w", err)
	}
	return decodeContent(blob.GetContent(), blob.GetEncoding(), sha)
}

// GetFileText reads a file through the contents API.
func (c *Client) GetFileText(ctx context.Context, owner, repo, branch, path string) (string, error) {
	path = strings.TrimLeft(path, "/")
	opts := &github.RepositoryContentGetOptions{Ref: branch}

	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return "", fmt.Errorf("failed to get contents: %w", err)
	}
	if file == nil {
		return "", fmt.Errorf("%w: %s is not a file", common.ErrEmptyPayload, path)
	}
	return decodeContent(common.GetString(file.Content), file.GetEncoding(), path)
}

func decodeContent(content, encoding, name string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("%w: GitHub returned no content for %s", common.ErrEmptyPayload, name)
	}
	switch encoding {
	case "base64":
		text, err := codec.DecodeBase64Text(content)
		if err != nil {
			return "", fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return text, nil
	case "", "utf-8":
		return content, nil
	default:
		return "", fmt.Errorf("%w: unsupported encoding %q for %s", common.ErrEmptyPayload, encoding, name)
	}
}
