package accesslogs

import "context"

type Repository interface {
	Append(ctx context.Context, e Entry) error
}
