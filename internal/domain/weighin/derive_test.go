package weighin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
)

func TestDeriveAllOnePerBodyInOrder(t *testing.T) {
	catalog := bodies.DefaultCatalog()
	in := ValidatedInput{Name: "Ana", Age: 30, Weight: 70}

	results := DeriveAll(in, catalog)
	all := catalog.AllBodies()
	require.Len(t, results, len(all))
	for i, body := range all {
		require.Equal(t, body.ID, results[i].BodyID)
		require.Equal(t, round2(in.Weight*body.GravityFactor), results[i].RelativeWeight)
	}
}

func TestDeriveAllReferenceScenario(t *testing.T) {
	results := DeriveAll(ValidatedInput{Name: "Ana", Age: 30, Weight: 70}, bodies.DefaultCatalog())
	byID := indexResults(results)

	require.Equal(t, "26.60", byID["Mercury"].WeightText())
	require.Equal(t, 26.6, byID["Mercury"].RelativeWeight)
	require.Equal(t, "70.00", byID["Earth"].WeightText())
	require.Equal(t, Applicable(30), byID["Earth"].RelativeAge)
	require.Equal(t, 163.8, byID["Jupiter"].RelativeWeight)
	require.Equal(t, 11.55, byID["Moon"].RelativeWeight)
	require.Equal(t, 1953.0, byID["Sun"].RelativeWeight)
}

func TestDeriveAllAgeNotApplicableWithoutYear(t *testing.T) {
	for _, age := range []float64{0.0001, 30, 120} {
		byID := indexResults(DeriveAll(ValidatedInput{Name: "Ana", Age: age, Weight: 70}, bodies.DefaultCatalog()))
		require.Equal(t, NotApplicable, byID["Moon"].RelativeAge)
		require.Equal(t, NotApplicable, byID["Sun"].RelativeAge)
		require.Equal(t, "-", byID["Moon"].RelativeAge.String())
	}
}

func TestDeriveAllRelativeAge(t *testing.T) {
	catalog, err := bodies.NewCatalog([]bodies.BodyRecord{
		{ID: "Mercury", GravityFactor: 0.38, YearLengthDays: bodies.Days(88)},
		{ID: "Jupiter", GravityFactor: 2.34, YearLengthDays: bodies.ParseYearLength("11.9 Earth years")},
		{ID: "Rogue", GravityFactor: 1, YearLengthDays: bodies.ParseYearLength("unknown")},
	})
	require.NoError(t, err)

	byID := indexResults(DeriveAll(ValidatedInput{Name: "Ana", Age: 10, Weight: 50}, catalog))
	require.Equal(t, Applicable(41.48), byID["Mercury"].RelativeAge)
	require.Equal(t, "41.48", byID["Mercury"].RelativeAge.String())
	require.Equal(t, Applicable(0.84), byID["Jupiter"].RelativeAge)
	require.Equal(t, NotApplicable, byID["Rogue"].RelativeAge)
}

func TestDeriveAllIsDeterministic(t *testing.T) {
	catalog := bodies.DefaultCatalog()
	in := ValidatedInput{Name: "Ana", Age: 42.5, Weight: 81.3}
	require.Equal(t, DeriveAll(in, catalog), DeriveAll(in, catalog))
}

func indexResults(results []DerivedResult) map[string]DerivedResult {
	out := make(map[string]DerivedResult, len(results))
	for _, r := range results {
		out[r.BodyID] = r
	}
	return out
}

func TestRound2LeavesLargeMagnitudesAlone(t *testing.T) {
	require.Equal(t, 2.79e306, round2(2.79e306))
	require.Equal(t, -1e15, round2(-1e15))
	require.Equal(t, 123456789012.35, round2(123456789012.345678))
	require.True(t, math.IsInf(round2(math.Inf(1)), 1))
}

func TestDeriveAllHugeWeightStaysFinite(t *testing.T) {
	weight := 1e305
	byID := indexResults(DeriveAll(ValidatedInput{Name: "Ana", Age: 30, Weight: weight}, bodies.DefaultCatalog()))

	sun := byID["Sun"]
	require.False(t, math.IsInf(sun.RelativeWeight, 0))
	require.Equal(t, weight*27.9, sun.RelativeWeight)

	_, err := json.Marshal(sun)
	require.NoError(t, err)
}

func TestDeriveCheckedRejectsOverflow(t *testing.T) {
	results, err := DeriveChecked(ValidatedInput{Name: "Ana", Age: 30, Weight: 1e307}, bodies.DefaultCatalog())
	require.Nil(t, results)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Reasons, 1)
	require.True(t, verr.Has(FieldWeight))
	require.Contains(t, verr.Error(), "weight is too large to compute on Sun")
}

func TestDeriveCheckedRejectsAgeOverflow(t *testing.T) {
	catalog, err := bodies.NewCatalog([]bodies.BodyRecord{
		{ID: "Flash", GravityFactor: 1, YearLengthDays: bodies.Days(1e-307)},
	})
	require.NoError(t, err)

	_, err = DeriveChecked(ValidatedInput{Name: "Ana", Age: 120, Weight: 70}, catalog)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has(FieldAge))
	require.False(t, verr.Has(FieldWeight))
}

func TestDeriveCheckedPassesOrdinaryInput(t *testing.T) {
	in := ValidatedInput{Name: "Ana", Age: 30, Weight: 70}
	results, err := DeriveChecked(in, bodies.DefaultCatalog())
	require.NoError(t, err)
	require.Equal(t, DeriveAll(in, bodies.DefaultCatalog()), results)
}
