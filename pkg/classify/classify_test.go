// pkg/classify/classify_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

func buildDataset(t *testing.T, cols map[string][]any, kinds map[string]table.Kind, order []string) *table.Dataset {
	t.Helper()
	ds := table.New()
	for _, name := range order {
		kind := table.KindText
		if k, ok := kinds[name]; ok {
			kind = k
		}
		require.NoError(t, ds.AddColumn(name, kind, cols[name]))
	}
	return ds
}

func TestIdentifierDetection(t *testing.T) {
	r := rules.Default()
	ds := buildDataset(t,
		map[string][]any{
			"customer_id": {1.0, 2.0, 2.0, 4.0, 5.0, 6.0},
			"order_id":    {10.0, 200.0, 3000.0, 40.0, 50.0, 60.0},
			"name":        {"a", "b", "c", "d", "e", "f"},
		},
		map[string]table.Kind{"customer_id": table.KindNumeric, "order_id": table.KindNumeric},
		[]string{"customer_id", "order_id", "name"},
	)

	roles := Detect(ds, r)
	assert.True(t, roles.Identifier["customer_id"], "mean gap 1.25 is within bounds")
	assert.False(t, roles.Identifier["order_id"], "widely spread values are not sequential keys")
	assert.False(t, roles.Identifier["name"])

	assert.Equal(t, []string{"customer_id"}, IdentifierColumns(ds, r))
}

func TestDateDetectionByNameAndContent(t *testing.T) {
	r := rules.Default()
	ds := buildDataset(t,
		map[string][]any{
			"joined_date": {"2023-01-01", "01/05/2023", "2023.07.12", "not_a_date"},
			"shipped":     {"2022-03-04", "2022-05-06", "2022-07-08", "2022-09-10"},
			"city":        {"Seattle", "Portland", "Tacoma", "Olympia"},
		},
		nil,
		[]string{"joined_date", "shipped", "city"},
	)

	roles := Detect(ds, r)
	assert.True(t, roles.Date["joined_date"], "date keyword in name plus parseable values")
	assert.True(t, roles.Date["shipped"], "values look and parse like dates despite the name")
	assert.False(t, roles.Date["city"])
}

func TestNumericRoleRespectsKeywordPrecedence(t *testing.T) {
	r := rules.Default()
	ds := buildDataset(t,
		map[string][]any{
			"age":         {25.0, -5.0, 30.0, "twenty", 45.0, 150.0},
			"score_name":  {"1", "2", "3", "4", "5", "6"},
			"salary":      {50000.0, 0.0, 60000.0, 70000.0, nil, 55000.0},
			"description": {"a", "b", "c", "d", "e", "f"},
		},
		map[string]table.Kind{"salary": table.KindNumeric},
		[]string{"age", "score_name", "salary", "description"},
	)

	roles := Detect(ds, r)
	assert.True(t, roles.Numeric["age"], "numeric keyword with coercible majority")
	assert.False(t, roles.Numeric["score_name"], "categorical keyword takes precedence")
	assert.True(t, roles.Numeric["salary"])
	assert.False(t, roles.Numeric["description"])

	assert.True(t, roles.Age["age"])
	assert.True(t, roles.Monetary["salary"])
	assert.False(t, roles.Monetary["age"])
}
