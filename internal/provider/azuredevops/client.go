package azuredevops

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

// ClientFactory creates a git client for an organization URL and PAT.
type ClientFactory func(ctx context.Context, organizationURL, pat string) (GitClientInterface, error)

// NewGitClient connects with HTTP basic auth, empty user name and the PAT as
// password.
func NewGitClient(ctx context.Context, organizationURL, pat string) (GitClientInterface, error) {
	connection := azuredevops.NewPatConnection(organizationURL, pat)
	client, err := git.NewClient(ctx, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure DevOps git client: %w", err)
	}
	return client, nil
}
