package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadNotificationBodyEscapesFormInput(t *testing.T) {
	body := leadNotificationBody(
		`<script>alert(1)</script>`,
		`"maria"@example.com`,
		`(11) 98765-4321 & ramal 2`,
	)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, body, "&#34;maria&#34;@example.com")
	assert.Contains(t, body, "(11) 98765-4321 &amp; ramal 2")
}

func TestLeadNotificationBodyKeepsPlainValues(t *testing.T) {
	body := leadNotificationBody("João Souza", "joao@example.com", "(21) 91234-5678")

	assert.Contains(t, body, "João Souza")
	assert.Contains(t, body, "joao@example.com")
	assert.Contains(t, body, "(21) 91234-5678")
}
