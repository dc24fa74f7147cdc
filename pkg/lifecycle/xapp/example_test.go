package xapp_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/xboot/pkg/lifecycle/xapp"
	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
	"github.com/omeyang/xboot/pkg/observability/xlog"
)

func ExampleApp_Run() {
	reg := xapp.NewRegistry()
	reg.MustRegister(
		xapp.Func("A", func(context.Context) error { return nil }),
		xapp.GuardFunc("B", func(g xrun.Guard) error {
			g.Wait()
			fmt.Println("B observed cancellation")
			return nil
		}),
		xapp.Func("C", func(context.Context) error { return errors.New("boom") }),
	)

	app := xapp.New(reg, xapp.WithLogger(xlog.Discard()), xapp.WithoutSignalHandler())
	report, err := app.Run(context.Background())
	if err != nil {
		fmt.Println("run:", err)
		return
	}

	fmt.Println("total:", report.Total)
	fmt.Println("succeeded:", len(report.Succeeded))
	for _, f := range report.Failed {
		fmt.Printf("failed: %s (%v)\n", f.Name, f.Cause)
	}
	fmt.Println("state:", app.State())
	// Output:
	// B observed cancellation
	// total: 3
	// succeeded: 2
	// failed: C (boom)
	// state: stopped
}

func ExampleRegistry_Register() {
	reg := xapp.NewRegistry()
	noop := func(context.Context) error { return nil }

	fmt.Println(reg.Register(xapp.Func("api", noop)))
	err := reg.Register(xapp.Func("api", noop))
	fmt.Println(errors.Is(err, xapp.ErrDuplicateComponent))
	fmt.Println(reg.Names())
	// Output:
	// <nil>
	// true
	// [api]
}
