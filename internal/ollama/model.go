package ollama

import "context"

// Model is one named model on an Ollama server.
type Model struct {
	client *Client
	name   string
}

func NewModel(client *Client, name string) *Model {
	return &Model{client: client, name: name}
}

func (m *Model) Name() string { return m.name }

// Installed reports whether the model is already pulled.
func (m *Model) Installed(ctx context.Context) (bool, error) {
	return m.client.HasModel(ctx, m.name)
}

// Install pulls the model, forwarding byte progress.
func (m *Model) Install(ctx context.Context, progress func(loaded, total int64)) error {
	return m.client.Pull(ctx, m.name, progress)
}
