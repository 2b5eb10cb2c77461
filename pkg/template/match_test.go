package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, pattern string) *Template {
	t.Helper()
	tmpl, err := Parse(pattern)
	require.NoError(t, err)
	return tmpl
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		want     Captures
		wantFail bool
	}{
		{
			name:    "exact literal match has empty captures",
			pattern: "src/components/Button.vue",
			path:    "src/components/Button.vue",
			want:    Captures{},
		},
		{
			name:     "literal mismatch fails",
			pattern:  "src/components/Button.vue",
			path:     "src/components/Input.vue",
			wantFail: true,
		},
		{
			name:     "extension mismatch fails first",
			pattern:  "[name].vue",
			path:     "Button.ts",
			wantFail: true,
		},
		{
			name:    "bare param captures filename stem",
			pattern: "[name].vue",
			path:    "Button.vue",
			want:    Captures{"name": "Button"},
		},
		{
			name:     "bare param never crosses a directory boundary",
			pattern:  "[name].vue",
			path:     "nested/Button.vue",
			wantFail: true,
		},
		{
			name:    "filename spread absorbs one directory",
			pattern: "[...path].vue",
			path:    "forms/Input.vue",
			want:    Captures{"path": "forms/Input"},
		},
		{
			name:    "filename spread absorbs deep paths",
			pattern: "[...path].vue",
			path:    "a/b/c/Deep.vue",
			want:    Captures{"path": "a/b/c/Deep"},
		},
		{
			name:    "filename spread with zero depth",
			pattern: "[...path].vue",
			path:    "Button.vue",
			want:    Captures{"path": "Button"},
		},
		{
			name:    "param directory consumes exactly one component",
			pattern: "[module]/index.ts",
			path:    "auth/index.ts",
			want:    Captures{"module": "auth"},
		},
		{
			name:     "param directory rejects extra depth",
			pattern:  "[module]/index.ts",
			path:     "auth/api/index.ts",
			wantFail: true,
		},
		{
			name:    "directory spread reserves trailing statics",
			pattern: "src/[...rest]/components/[name].vue",
			path:    "src/a/b/components/Button.vue",
			want:    Captures{"rest": "a/b", "name": "Button"},
		},
		{
			name:    "directory spread can consume zero components",
			pattern: "src/[...rest]/components/[name].vue",
			path:    "src/components/Button.vue",
			want:    Captures{"rest": "", "name": "Button"},
		},
		{
			name:    "mixed stem with prefix and suffix",
			pattern: "use[name]Store.ts",
			path:    "useCartStore.ts",
			want:    Captures{"name": "Cart"},
		},
		{
			name:     "mixed stem missing suffix fails",
			pattern:  "use[name]Store.ts",
			path:     "useCart.ts",
			wantFail: true,
		},
		{
			name:     "mixed stem missing prefix fails",
			pattern:  "use[name]Store.ts",
			path:     "myCartStore.ts",
			wantFail: true,
		},
		{
			name:    "param takes maximal run before last static boundary",
			pattern: "[name]Test.ts",
			path:    "FooTestTest.ts",
			want:    Captures{"name": "FooTest"},
		},
		{
			name:    "static directories with spread stem",
			pattern: "src/[...path].vue",
			path:    "src/forms/Input.vue",
			want:    Captures{"path": "forms/Input"},
		},
		{
			name:     "static directory mismatch with spread stem fails",
			pattern:  "src/[...path].vue",
			path:     "lib/forms/Input.vue",
			wantFail: true,
		},
		{
			name:     "unconsumed pattern segments fail",
			pattern:  "src/components/[name].vue",
			path:     "src/Button.vue",
			wantFail: true,
		},
		{
			name:    "no extension pattern matches extensionless file",
			pattern: "bin/[name]",
			path:    "bin/run",
			want:    Captures{"name": "run"},
		},
		{
			name:     "no extension pattern rejects extension",
			pattern:  "bin/[name]",
			path:     "bin/run.sh",
			wantFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := mustParse(t, tt.pattern)
			caps, ok := Match(tt.path, tmpl)
			if tt.wantFail {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, caps)
		})
	}
}

func TestMatchFilenameCapturePrecedence(t *testing.T) {
	// The same capture name in a directory and in the filename: the
	// filename capture wins.
	tmpl := mustParse(t, "[name]/[name].vue")
	caps, ok := Match("auth/Login.vue", tmpl)
	require.True(t, ok)
	assert.Equal(t, Captures{"name": "Login"}, caps)
}

func TestScopeRel(t *testing.T) {
	tmpl := mustParse(t, "components/[name].vue")
	tmpl.ScopePrefix = "src/modules/admin"

	rel, ok := tmpl.ScopeRel("src/modules/admin/components/Button.vue")
	require.True(t, ok)
	assert.Equal(t, "components/Button.vue", rel)

	_, ok = tmpl.ScopeRel("src/components/Button.vue")
	assert.False(t, ok)

	root := mustParse(t, "src/components/[name].vue")
	rel, ok = root.ScopeRel("src/components/Button.vue")
	require.True(t, ok)
	assert.Equal(t, "src/components/Button.vue", rel)
}
