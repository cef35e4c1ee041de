package shopify

import (
	"context"

	"catalog-sync/core/reconcile"
)

const adjustQuantitiesMutation = `mutation inventoryAdjustQuantities($input: InventoryAdjustQuantitiesInput!) {
  inventoryAdjustQuantities(input: $input) {
    inventoryAdjustmentGroup {
      createdAt
      reason
      changes {
        name
        delta
        quantityAfterChange
      }
    }
    userErrors {
      field
      message
    }
  }
}`

type adjustQuantitiesData struct {
	InventoryAdjustQuantities struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"inventoryAdjustQuantities"`
}

type inventoryChange struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Delta           int    `json:"delta"`
}

// AdjustInventory applies all changes in one inventoryAdjustQuantities call
// against the "available" quantity with reason "correction".
func (c *Client) AdjustInventory(ctx context.Context, changes []reconcile.InventoryDelta) error {
	if len(changes) == 0 {
		return nil
	}

	input := make([]inventoryChange, 0, len(changes))
	for _, ch := range changes {
		input = append(input, inventoryChange{
			InventoryItemID: GID("InventoryItem", ch.InventoryItemID),
			LocationID:      GID("Location", ch.LocationID),
			Delta:           ch.Delta,
		})
	}

	vars := map[string]any{
		"input": map[string]any{
			"name":    "available",
			"reason":  "correction",
			"changes": input,
		},
	}

	var data adjustQuantitiesData
	if err := c.graphQL(ctx, "inventoryAdjustQuantities", adjustQuantitiesMutation, vars, &data); err != nil {
		return err
	}
	if ue := data.InventoryAdjustQuantities.UserErrors; len(ue) > 0 {
		return &UserErrors{Operation: "inventoryAdjustQuantities", Errors: ue}
	}
	return nil
}
