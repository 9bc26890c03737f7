package domain

type CommandType string

const (
	CommandUIReady        CommandType = "ui-ready"
	CommandSaveProvider   CommandType = "save-provider"
	CommandSelectProvider CommandType = "select-provider"
	CommandRetrySync      CommandType = "retry-sync"
	CommandInsertIcon     CommandType = "insert-icon"
	CommandApplyVariant   CommandType = "apply-variant"
	CommandFetchPreviews  CommandType = "fetch-previews"
	CommandSearchIcons    CommandType = "search-icons"
)

// Command is an inbound request from the UI.
type Command struct {
	Type                CommandType
	Provider            string
	Values              map[string]string
	SetSelectedProvider bool
	IconID              string
	Title               string
	Name                string
	Size                int
	Variant             string
	IconIDs             []string
	Query               string
}

type EventType string

const (
	EventStateHydrate      EventType = "state-hydrate"
	EventFetchStart        EventType = "remote-fetch-start"
	EventFetchSuccess      EventType = "remote-fetch-success"
	EventFetchFailed       EventType = "remote-fetch-failed"
	EventIconPreview       EventType = "icon-preview"
	EventIconPreviewFailed EventType = "icon-preview-failed"
	EventPreviewsComplete  EventType = "icon-previews-complete"
	EventSearchResults     EventType = "search-results"
)

// PublicState is the snapshot attached to every outbound event.
type PublicState struct {
	SelectedProvider ProviderKind                    `json:"selectedProvider"`
	Providers        map[ProviderKind]ProviderConfig `json:"providers"`
	Icons            []IconSummary                   `json:"icons"`
}

// Event is an outbound notification to the UI.
type Event struct {
	Type EventType `json:"type"`
	PublicState
	Provider     ProviderKind  `json:"provider,omitempty"`
	Context      string        `json:"context,omitempty"`
	Error        string        `json:"error,omitempty"`
	IconID       string        `json:"iconId,omitempty"`
	SVGMarkup    string        `json:"svgMarkup,omitempty"`
	RequestedIDs []string      `json:"requestedIds,omitempty"`
	Results      []IconSummary `json:"results,omitempty"`
}

type Publisher interface {
	Publish(event Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(event Event)

func (f PublisherFunc) Publish(event Event) {
	f(event)
}
