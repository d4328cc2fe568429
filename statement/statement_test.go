package statement

import (
	"testing"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func TestInsert(t *testing.T) {
	assert.Equal(t, "INSERT INTO messages(a, b) VALUES (:a, :b)", Insert("messages", []string{"a", "b"}))
	assert.Equal(t, "INSERT INTO messages(payload) VALUES (:payload)", Insert("messages", []string{"payload"}))
}

func TestCopy(t *testing.T) {
	tests := map[string]struct {
		columns  []string
		options  func() (schema.FormatOptions, error)
		expected string
	}{
		"plain": {
			columns: []string{"payload"},
			options: func() (schema.FormatOptions, error) {
				return schema.NewFormatOptions("TEXT", nil, nil, nil, nil)
			},
			expected: "COPY names (payload) FROM STDIN",
		},
		"no columns": {
			options: func() (schema.FormatOptions, error) {
				return schema.NewFormatOptions("", nil, nil, nil, nil)
			},
			expected: "COPY names FROM STDIN",
		},
		"csv with every option": {
			columns: []string{"id", "name", "age"},
			options: func() (schema.FormatOptions, error) {
				return schema.NewFormatOptions("csv", ptr("|"), ptr(""), ptr("'"), ptr("~"))
			},
			expected: "COPY names (id,name,age) FROM STDIN WITH CSV DELIMITER '|' NULL '' QUOTE '''' ESCAPE '~'",
		},
		"csv with delimiter only": {
			columns: []string{"id", "name", "age"},
			options: func() (schema.FormatOptions, error) {
				return schema.NewFormatOptions("CSV", ptr("|"), nil, nil, nil)
			},
			expected: "COPY names (id,name,age) FROM STDIN WITH CSV DELIMITER '|'",
		},
		"escaped delimiter": {
			columns: []string{"a"},
			options: func() (schema.FormatOptions, error) {
				return schema.NewFormatOptions("TEXT", ptr(`\t`), nil, nil, nil)
			},
			expected: `COPY names (a) FROM STDIN WITH DELIMITER E'\t'`,
		},
		"null only": {
			columns: []string{"a", "b"},
			options: func() (schema.FormatOptions, error) {
				return schema.NewFormatOptions("TEXT", nil, ptr(`\N`), nil, nil)
			},
			expected: `COPY names (a,b) FROM STDIN WITH NULL '\N'`,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			options, err := tc.options()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, Copy("names", tc.columns, options))
		})
	}
}

func TestCopyDeterministic(t *testing.T) {
	options, err := schema.NewFormatOptions("CSV", ptr(";"), ptr("NULL"), ptr("\""), ptr("\\"))
	require.NoError(t, err)

	first := Copy("t", []string{"a", "b"}, options)
	assert.Equal(t, first, Copy("t", []string{"a", "b"}, options))
	assert.Equal(t, `COPY t (a,b) FROM STDIN WITH CSV DELIMITER ';' NULL 'NULL' QUOTE '"' ESCAPE '\'`, first)
}

func TestSplitScript(t *testing.T) {
	script := `
-- recreate the table
DROP TABLE messages;
CREATE TABLE messages (payload VARCHAR(2000));

INSERT INTO messages VALUES ('a;b'); -- trailing comment
;
`
	assert.Equal(t, []string{
		"DROP TABLE messages",
		"CREATE TABLE messages (payload VARCHAR(2000))",
		"INSERT INTO messages VALUES ('a;b')",
	}, SplitScript(script))
}

func TestSplitScriptDefaultDDL(t *testing.T) {
	statements := SplitScript(schema.DefaultInitScript("messages", []string{"a", "b"}))
	assert.Equal(t, []string{
		"DROP TABLE messages",
		"CREATE TABLE messages (a VARCHAR(2000), b VARCHAR(2000))",
	}, statements)
}
