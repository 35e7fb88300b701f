package dto

type HealthResponse struct {
	Status   string           `json:"status"`
	Tiers    TierAvailability `json:"tiers"`
	Sessions int              `json:"sessions"`
}

// TierAvailability reports which remote tiers have credentials. It does not
// probe the upstream services.
type TierAvailability struct {
	PrimaryVision   bool `json:"primary_vision"`
	SecondaryVision bool `json:"secondary_vision"`
	CareAdvice      bool `json:"care_advice"`
	Chat            bool `json:"chat"`
}
