package azuredevops

import (
	"context"
	"io"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

// GitClientInterface defines the subset of git.Client methods we use
// This allows us to mock the Azure DevOps Git client for testing
type GitClientInterface interface {
	GetItems(ctx context.Context, args git.GetItemsArgs) (*[]git.GitItem, error)
	GetItem(ctx context.Context, args git.GetItemArgs) (*git.GitItem, error)
	GetItemText(ctx context.Context, args git.GetItemTextArgs) (io.ReadCloser, error)
}
