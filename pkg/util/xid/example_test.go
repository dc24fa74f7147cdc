package xid_test

import (
	"fmt"

	"github.com/omeyang/xboot/pkg/util/xid"
)

func ExampleNewGenerator() {
	g, err := xid.NewGenerator(xid.WithMachineID(func() (uint16, error) { return 7, nil }))
	if err != nil {
		fmt.Println(err)
		return
	}
	s, _ := g.NewString()
	id, _ := xid.Parse(s)
	c, _ := xid.Decompose(id)
	fmt.Println(c.Machine)
	// Output: 7
}
