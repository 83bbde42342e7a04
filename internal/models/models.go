package models

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type Result struct {
	Document string      `json:"document"`
	Tags     []WordCount `json:"tags"`
	Stats    struct {
		DistinctTags int `json:"distinctTags"`
		TotalTags    int `json:"totalTags"`
		StopWords    int `json:"stopWords"`
		Lines        int `json:"lines"`
		TimeElapsed  int `json:"timeElapsedMs"`
	} `json:"stats"`
}
