package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderer_Welcome(t *testing.T) {
	r, err := NewRenderer("Riverside School")
	require.NoError(t, err)

	msg, err := r.Welcome("ana@example.com", "Ana <b>Ruiz</b>")
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Equal(t, "Welcome to Riverside School", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Ana &lt;b&gt;Ruiz&lt;/b&gt;")
	assert.NotContains(t, msg.HTMLBody, "<b>Ruiz</b>")
}

func TestRenderer_ContactNotification(t *testing.T) {
	r, err := NewRenderer("Riverside School")
	require.NoError(t, err)

	msg, err := r.ContactNotification([]string{"a@school.test", "b@school.test"}, ContactDetails{
		Name:    "Luis",
		Email:   "luis@example.com",
		Message: "line one\nline <two>",
	})
	require.NoError(t, err)

	assert.Len(t, msg.To, 2)
	assert.Equal(t, "New contact message: No subject", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "<p>line one</p>")
	assert.Contains(t, msg.HTMLBody, "<p>line &lt;two&gt;</p>")
}

func TestRenderer_ContactConfirmation(t *testing.T) {
	r, err := NewRenderer("Riverside School")
	require.NoError(t, err)

	msg, err := r.ContactConfirmation("luis@example.com", "Luis")
	require.NoError(t, err)
	assert.Contains(t, msg.HTMLBody, "Hello <strong>Luis</strong>")
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(zap.NewNop()).Send(context.Background(), Message{To: []string{"a@b.c"}}))
}
