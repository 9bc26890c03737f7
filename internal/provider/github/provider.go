package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/metadata"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
)

// Provider reads icons from a GitHub repository. Clients are created per
// token and reused.
type Provider struct {
	baseURL string

	mu      sync.Mutex
	clients map[string]*Client
}

func NewProvider(baseURL string) *Provider {
	return &Provider{
		baseURL: baseURL,
		clients: make(map[string]*Client),
	}
}

func (p *Provider) Kind() domain.ProviderKind {
	return domain.ProviderGitHub
}

func (p *Provider) clientFor(pat string) (*Client, error) {
	pat = naming.NormalizeString(pat)
	if pat == "" {
		return nil, fmt.Errorf("GitHub %w", common.ErrAuthRequired)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[pat]; ok {
		return client, nil
	}
	client, err := NewClient(pat, p.baseURL)
	if err != nil {
		return nil, err
	}
	logger.AddSecret(pat)
	p.clients[pat] = client
	return client, nil
}

func (p *Provider) FetchIndex(ctx context.Context, cfg domain.ProviderConfig) (*domain.IconIndex, error) {
	client, err := p.clientFor(cfg.PAT)
	if err != nil {
		return nil, err
	}

	owner, repo, err := common.ParseGitHubRepository(cfg.Repository)
	if err != nil {
		return nil, err
	}
	branch := naming.NormalizeString(cfg.Branch)
	if branch == "" {
		branch = domain.DefaultBranch
	}

	logger.Log("GitHub: Listing tree of %s/%s@%s", owner, repo, branch)
	files, err := client.ListFiles(ctx, owner, repo, branch)
	if err != nil {
		logger.LogError("GITHUB_LIST_TREE", fmt.Sprintf("%s/%s@%s", owner, repo, branch), err)
		return nil, err
	}

	selected, err := common.SelectIconFiles(domain.ProviderGitHub, files)
	if err != nil {
		return nil, err
	}

	lookup := metadata.Load(ctx, domain.ProviderGitHub, func(ctx context.Context, path string) (string, error) {
		return client.GetFileText(ctx, owner, repo, branch, path)
	})

	index := common.BuildIndex(domain.ProviderGitHub, selected, lookup.Find, func(file common.RemoteFile) domain.IconDescriptor {
		return domain.IconDescriptor{
			Provider: domain.ProviderGitHub,
			Owner:    owner,
			Repo:     repo,
			Branch:   branch,
			Path:     file.Path,
			SHA:      file.SHA,
		}
	})
	index.NormalizedConfig = domain.ProviderConfig{
		Repository: owner + "/" + repo,
		Branch:     branch,
	}

	logger.Log("GitHub: Indexed %d icons from %d files in %s/%s", len(index.Icons), len(files), owner, repo)
	return index, nil
}

// FetchFileText reads the blob by SHA when known and falls back to the
// contents API.
func (p *Provider) FetchFileText(ctx context.Context, cfg domain.ProviderConfig, descriptor domain.IconDescriptor) (string, error) {
	client, err := p.clientFor(cfg.PAT)
	if err != nil {
		return "", err
	}

	branch := descriptor.Branch
	if branch == "" {
		branch = domain.DefaultBranch
	}

	if descriptor.SHA != "" {
		text, err := client.GetBlobText(ctx, descriptor.Owner, descriptor.Repo, descriptor.SHA)
		if err == nil {
			return text, nil
		}
		logger.Log("GitHub: Blob %s for %s failed, using contents API: %s", descriptor.SHA, descriptor.Path, common.ExtractErrorMessage(err))
	}

	text, err := client.GetFileText(ctx, descriptor.Owner, descriptor.Repo, branch, descriptor.Path)
	if err != nil {
		logger.LogError("GITHUB_GET_FILE", descriptor.Path, err)
		return "", err
	}
	return text, nil
}
