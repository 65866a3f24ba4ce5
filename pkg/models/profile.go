package models

// FeatureNames is the column order the classifier was fitted on.
var FeatureNames = []string{
	"is_private",
	"mediacount",
	"followers",
	"followees",
	"is_business_account",
	"has_public_story",
}

// ProfileFeatures holds the six engagement features of one account.
type ProfileFeatures struct {
	IsPrivate         int     `json:"is_private"`
	MediaCount        float64 `json:"mediacount"`
	Followers         float64 `json:"followers"`
	Followees         float64 `json:"followees"`
	IsBusinessAccount int     `json:"is_business_account"`
	HasPublicStory    int     `json:"has_public_story"`
}

// Vector returns the features in FeatureNames order.
func (f ProfileFeatures) Vector() []float64 {
	return []float64{
		float64(f.IsPrivate),
		f.MediaCount,
		f.Followers,
		f.Followees,
		float64(f.IsBusinessAccount),
		float64(f.HasPublicStory),
	}
}

// Values returns the features keyed by column name.
func (f ProfileFeatures) Values() map[string]float64 {
	vec := f.Vector()
	out := make(map[string]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		out[name] = vec[i]
	}
	return out
}

// Profile is one evaluated account from the testing dataset.
// Index is the row position in the loaded table and is its identity.
type Profile struct {
	Index               int             `json:"index"`
	Username            string          `json:"username"`
	Features            ProfileFeatures `json:"features"`
	FollowerProbability float64         `json:"follower_probability"`
	Actual              string          `json:"actual"`
}

// ProfileOption is one dropdown entry.
type ProfileOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Table is a small rendered table: column headers and row cells.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ProfileSelection is what the Testing Results tab shows for a selected row.
type ProfileSelection struct {
	Index           int     `json:"index"`
	Username        string  `json:"username"`
	SelectedText    string  `json:"selected_text"`
	ProbabilityText string  `json:"probability_text"`
	Probability     float64 `json:"probability"`
	Actual          string  `json:"actual"`
	Characteristics Table   `json:"characteristics"`
}
