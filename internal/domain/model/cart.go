package model

import "time"

type Cart struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	Items      []CartItem `json:"items"`
	TotalCents int64      `json:"totalCents"`
	Total      string     `json:"total"`
}

type CartItem struct {
	ID      int64       `json:"id"`
	GameID  int64       `json:"gameId"`
	Game    GameSummary `json:"game"`
	AddedAt time.Time   `json:"addedAt"`
}

// Recalculate sums item prices into the cart totals.
func (c *Cart) Recalculate() {
	var total int64
	for _, item := range c.Items {
		total += item.Game.PriceCents
	}
	c.TotalCents = total
	c.Total = FormatPrice(total)
}
