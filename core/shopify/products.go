package shopify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"catalog-sync/core/reconcile"

	"github.com/shopspring/decimal"
)

const productsPath = "/products.json"

// productFields limits the listing to what reconciliation reads.
const productFields = "id,title,variants"

type productsResponse struct {
	Products []restProduct `json:"products"`
}

type restProduct struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Variants []restVariant `json:"variants"`
}

type restVariant struct {
	ID                int64           `json:"id"`
	SKU               string          `json:"sku"`
	InventoryItemID   int64           `json:"inventory_item_id"`
	InventoryQuantity int             `json:"inventory_quantity"`
	Price             decimal.Decimal `json:"price"`
}

// ListProducts fetches one page of the product listing. An empty cursor
// requests the first page. The returned NextCursor is empty on the last page.
func (c *Client) ListProducts(ctx context.Context, cursor string, limit int) (reconcile.Page, error) {
	if limit <= 0 {
		limit = c.pageSize
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("fields", productFields)
	if cursor != "" {
		query.Set("page_info", cursor)
	}

	var body productsResponse
	header, err := c.do(ctx, http.MethodGet, productsPath, query, nil, &body)
	if err != nil {
		return reconcile.Page{}, err
	}

	page := reconcile.Page{
		Products:   make([]reconcile.Product, 0, len(body.Products)),
		NextCursor: NextPageInfo(header.Get("Link")),
	}
	for _, p := range body.Products {
		product := reconcile.Product{
			ID:       formatID(p.ID),
			Title:    p.Title,
			Variants: make([]reconcile.Variant, 0, len(p.Variants)),
		}
		for _, v := range p.Variants {
			product.Variants = append(product.Variants, reconcile.Variant{
				ID:               formatID(v.ID),
				SKU:              v.SKU,
				InventoryItemID:  formatID(v.InventoryItemID),
				ObservedQuantity: v.InventoryQuantity,
				ObservedPrice:    v.Price,
			})
		}
		page.Products = append(page.Products, product)
	}
	return page, nil
}

// formatID renders a numeric resource id. A null or zero id becomes "".
func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// NextPageInfo extracts the page_info parameter of the rel="next" entry of a
// Link header. It returns "" when there is no next page.
func NextPageInfo(link string) string {
	for _, entry := range strings.Split(link, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}
		isNext := false
		for _, param := range parts[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				isNext = true
				break
			}
		}
		if !isNext {
			continue
		}
		target := strings.Trim(strings.TrimSpace(parts[0]), "<>")
		u, err := url.Parse(target)
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}
	return ""
}
