package shopify

import (
	"context"

	"catalog-sync/core/reconcile"
)

const variantUpdateMutation = `mutation productVariantUpdate($input: ProductVariantInput!) {
  productVariantUpdate(input: $input) {
    productVariant {
      id
      price
      sku
    }
    userErrors {
      field
      message
    }
  }
}`

type variantUpdateData struct {
	ProductVariantUpdate struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"productVariantUpdate"`
}

// UpdateVariantPrice sets one variant's price, sent with two decimals.
func (c *Client) UpdateVariantPrice(ctx context.Context, update reconcile.PriceUpdate) error {
	vars := map[string]any{
		"input": map[string]any{
			"id":    GID("ProductVariant", update.VariantID),
			"price": update.NewPrice.StringFixed(2),
		},
	}

	var data variantUpdateData
	if err := c.graphQL(ctx, "productVariantUpdate", variantUpdateMutation, vars, &data); err != nil {
		return err
	}
	if ue := data.ProductVariantUpdate.UserErrors; len(ue) > 0 {
		return &UserErrors{Operation: "productVariantUpdate", Errors: ue}
	}
	return nil
}
