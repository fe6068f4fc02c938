package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		in, camel, pascal, kebab, snake string
	}{
		{"BankAccount", "bankAccount", "BankAccount", "bank-account", "bank_account"},
		{"docker-compose", "dockerCompose", "DockerCompose", "docker-compose", "docker_compose"},
		{"myApp", "myApp", "MyApp", "my-app", "my_app"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.camel, Camel(tt.in))
			assert.Equal(t, tt.pascal, Pascal(tt.in))
			assert.Equal(t, tt.kebab, Kebab(tt.in))
			assert.Equal(t, tt.snake, Snake(tt.in))
		})
	}
}

func TestFirstRune(t *testing.T) {
	assert.Equal(t, "Foo", UpperFirst("foo"))
	assert.Equal(t, "fOO", LowerFirst("FOO"))
	assert.Equal(t, "", UpperFirst(""))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "My App", Humanize("myApp"))
	assert.Equal(t, "Store Front", Humanize("store-front"))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "BankAccounts", Plural("BankAccount"))
	assert.Equal(t, "bankAccounts", Plural("bankAccount"))
	assert.Equal(t, "People", Plural("Person"))
	assert.Equal(t, "categories", Plural("category"))
	assert.Equal(t, "bank-accounts", Plural("bank-account"))
	assert.Equal(t, "Category", Singular("Categories"))
}
