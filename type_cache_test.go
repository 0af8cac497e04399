package reflector

import (
	"reflect"
	"sync"
	"testing"
)

type cached struct {
	A    int
	B    string `reflector:"readonly"`
	a    bool
	Dup  int
	DUP  int
	Skip int `reflector:"-"`
}

func TestTypeInfoFirstWriterWins(t *testing.T) {
	typ := reflect.TypeFor[cached]()
	typeCache.Delete(typ)

	const n = 16
	var wg sync.WaitGroup
	infos := make([]*typeInfo, n)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			infos[i] = typeInfoOf(typ)
		}()
	}
	close(start)
	wg.Wait()
	for i, ti := range infos {
		if ti != infos[0] {
			t.Fatalf("goroutine %d got a different cache entry", i)
		}
	}
}

func TestScanType(t *testing.T) {
	ti := scanType(reflect.TypeFor[cached]())
	var names []string
	for _, p := range ti.props {
		names = append(names, p.Name)
	}
	if want := []string{"A", "B", "Dup"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if ti.props[1].HasSetter {
		t.Error("readonly field has a setter")
	}
	if i, ok := ti.byKey["dup"]; !ok || ti.props[i].Name != "Dup" {
		t.Errorf("dup resolves to %v", ti.byKey["dup"])
	}
}
