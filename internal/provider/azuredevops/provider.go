package azuredevops

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/metadata"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

type clientKey struct {
	organization string
	pat          string
}

// Provider reads icons from an Azure DevOps Git repository. Clients are
// cached per organization and PAT.
type Provider struct {
	newClient ClientFactory

	mu      sync.Mutex
	clients map[clientKey]GitClientInterface
}

func NewProvider() *Provider {
	return NewProviderWithFactory(NewGitClient)
}

func NewProviderWithFactory(factory ClientFactory) *Provider {
	return &Provider{
		newClient: factory,
		clients:   make(map[clientKey]GitClientInterface),
	}
}

func (p *Provider) Kind() domain.ProviderKind {
	return domain.ProviderAzure
}

func (p *Provider) clientFor(ctx context.Context, organization, pat string) (GitClientInterface, error) {
	pat = naming.NormalizeString(pat)
	if pat == "" {
		return nil, fmt.Errorf("Azure DevOps %w", common.ErrAuthRequired)
	}

	key := clientKey{organization: organization, pat: pat}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[key]; ok {
		return client, nil
	}
	client, err := p.newClient(ctx, organizationURL(organization), pat)
	if err != nil {
		logger.LogError("AZURE_CONNECT", organization, err)
		return nil, err
	}
	logger.AddSecret(pat)
	p.clients[key] = client
	return client, nil
}

func (p *Provider) FetchIndex(ctx context.Context, cfg domain.ProviderConfig) (*domain.IconIndex, error) {
	if naming.NormalizeString(cfg.PAT) == "" {
		return nil, fmt.Errorf("Azure DevOps %w", common.ErrAuthRequired)
	}

	organization, err := common.ParseAzureOrganization(cfg.OrganizationURL)
	if err != nil {
		return nil, err
	}
	branch := extractBranchName(cfg.Branch)
	if branch == "" {
		branch = domain.DefaultBranch
	}
	project, repository, err := common.ResolveAzureProjectAndRepository(cfg.Repository, cfg.Project, organization)
	if err != nil {
		return nil, err
	}

	client, err := p.clientFor(ctx, organization, cfg.PAT)
	if err != nil {
		return nil, err
	}

	logger.Log("Azure DevOps: Listing items of %s/%s/%s@%s", organization, project, repository, branch)
	recursion := git.VersionControlRecursionTypeValues.Full
	items, err := client.GetItems(ctx, git.GetItemsArgs{
		RepositoryId:           &repository,
		Project:                &project,
		ScopePath:              common.Ptr("/"),
		RecursionLevel:         &recursion,
		IncludeContentMetadata: common.Ptr(true),
		VersionDescriptor:      branchDescriptor(branch),
	})
	if err != nil {
		logger.LogError("AZURE_LIST_ITEMS", fmt.Sprintf("%s/%s@%s", project, repository, branch), err)
		return nil, err
	}

	var files []common.RemoteFile
	if items != nil {
		for _, item := range *items {
			path := common.GetString(item.Path)
			if common.GetBool(item.IsFolder) || path == "" {
				continue
			}
			files = append(files, common.RemoteFile{Path: path, SHA: common.GetString(item.ObjectId)})
		}
	}

	selected, err := common.SelectIconFiles(domain.ProviderAzure, files)
	if err != nil {
		return nil, err
	}

	lookup := metadata.Load(ctx, domain.ProviderAzure, func(ctx context.Context, path string) (string, error) {
		return fileText(ctx, client, project, repository, branch, path)
	})

	index := common.BuildIndex(domain.ProviderAzure, selected, lookup.Find, func(file common.RemoteFile) domain.IconDescriptor {
		return domain.IconDescriptor{
			Provider:     domain.ProviderAzure,
			Organization: organization,
			Project:      project,
			Repository:   repository,
			Branch:       branch,
			Path:         file.Path,
		}
	})
	index.NormalizedConfig = domain.ProviderConfig{
		OrganizationURL: organizationURL(organization),
		Project:         project,
		Repository:      repository,
		Branch:          branch,
	}

	logger.Log("Azure DevOps: Indexed %d icons from %d files in %s/%s", len(index.Icons), len(files), project, repository)
	return index, nil
}

func (p *Provider) FetchFileText(ctx context.Context, cfg domain.ProviderConfig, descriptor domain.IconDescriptor) (string, error) {
	client, err := p.clientFor(ctx, descriptor.Organization, cfg.PAT)
	if err != nil {
		return "", err
	}
	branch := descriptor.Branch
	if branch == "" {
		branch = domain.DefaultBranch
	}

	text, err := fileText(ctx, client, descriptor.Project, descriptor.Repository, branch, descriptor.Path)
	if err != nil {
		logger.LogError("AZURE_GET_ITEM", descriptor.Path, err)
		return "", err
	}
	return text, nil
}

// fileText reads one file with its content inlined, falling back to the raw
// text endpoint when the item carries no content.
func fileText(ctx context.Context, client GitClientInterface, project, repository, branch, path string) (string, error) {
	item, err := client.GetItem(ctx, git.GetItemArgs{
		RepositoryId:      &repository,
		Project:           &project,
		Path:              &path,
		IncludeContent:    common.Ptr(true),
		VersionDescriptor: branchDescriptor(branch),
	})
	if err != nil {
		return "", err
	}
	if item != nil && common.GetString(item.Content) != "" {
		return *item.Content, nil
	}

	reader, err := client.GetItemText(ctx, git.GetItemTextArgs{
		RepositoryId:      &repository,
		Project:           &project,
		Path:              &path,
		VersionDescriptor: branchDescriptor(branch),
	})
	if err != nil {
		return "", err
	}
	if reader == nil {
		return "", fmt.Errorf("%w: Azure DevOps returned no content for %s", common.ErrEmptyPayload, path)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("%w: Azure DevOps returned no content for %s", common.ErrEmptyPayload, path)
	}
	return unwrapItemText(string(body)), nil
}
