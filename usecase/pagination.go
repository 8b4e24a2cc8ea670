package usecase

import (
	"context"

	"ytcurator/domain/dto"
)

// PageFetcher requests the page that starts at pageToken ("" for the first page)
type PageFetcher[T any] func(ctx context.Context, pageToken string) (*dto.Page[T], error)

// FetchAll follows continuation cursors until a page comes back without one, keeping item order.
// There is no page cap; cancelling ctx stops the loop.
func FetchAll[T any](ctx context.Context, fetch PageFetcher[T]) ([]T, error) {
	items := make([]T, 0)
	pageToken := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}
