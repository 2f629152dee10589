package models

// CatalogItem is a reward that can be bought with points.
type CatalogItem struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageRef    string `json:"image_ref"`
}

type PurchaseResult struct {
	Success       bool `json:"success"`
	NewTotalScore int  `json:"new_total_score"`
	NewStage      int  `json:"new_stage"`
}
