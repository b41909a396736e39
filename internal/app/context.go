package app

// BlockSource tags where a context block came from.
type BlockSource string

const (
	SourceHistory BlockSource = "terminal-history"
	SourceFile    BlockSource = "file-content"
	SourceConsole BlockSource = "console-output"
	SourceShell   BlockSource = "shell-integration"
)

// Block is a labeled context fragment injected into a user turn. Once merged
// into a message's content it is never referenced again.
type Block struct {
	Source BlockSource
	Label  string
	Text   string
}

// Render returns the block as it appears inside a message.
func (b Block) Render() string {
	if b.Label == "" {
		return b.Text
	}
	return b.Label + ":\n" + b.Text
}

// ProviderStatus classifies a provider outcome. Callers branch on this rather
// than sniffing the returned text for marker phrases.
type ProviderStatus int

const (
	// StatusIncluded means the block carries usable context.
	StatusIncluded ProviderStatus = iota
	// StatusEmpty means the provider ran but found nothing to add.
	StatusEmpty
	// StatusFailed means the provider hit an I/O problem; Note says what.
	StatusFailed
)

// ProviderResult is the outcome of one context provider call. Note holds a
// human-readable status for the Empty and Failed cases and is never merged
// into an outbound message.
type ProviderResult struct {
	Status ProviderStatus
	Block  Block
	Note   string
}

func included(b Block) ProviderResult {
	return ProviderResult{Status: StatusIncluded, Block: b}
}

func empty(source BlockSource, note string) ProviderResult {
	return ProviderResult{Status: StatusEmpty, Block: Block{Source: source}, Note: note}
}

func failed(source BlockSource, note string) ProviderResult {
	return ProviderResult{Status: StatusFailed, Block: Block{Source: source}, Note: note}
}
