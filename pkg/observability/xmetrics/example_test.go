package xmetrics_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/xboot/pkg/observability/xmetrics"
)

func ExampleStart() {
	// nil observer 退化为空跨度，调用方无需判空。
	ctx, span := xmetrics.Start(context.Background(), nil, xmetrics.SpanOptions{
		Component: "worker",
		Operation: "serve",
	})
	span.End(xmetrics.Result{Err: errors.New("boom")})
	fmt.Println(ctx != nil)
	// Output: true
}
