package entity

// Progress is one update published to the progress sink.
type Progress struct {
	Phase     string `json:"phase"`
	Detail    string `json:"detail"`
	Secondary string `json:"secondary"`
	Percent   int    `json:"percent"`
}

// Milestones reported during a run.
const (
	PercentSettingLocation = 10
	PercentLocationSet     = 25
	PercentScraping        = 60
	PercentDoneScraping    = 80
	PercentProcessing      = 90
	PercentDone            = 100
)
