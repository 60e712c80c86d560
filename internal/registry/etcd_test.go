package registry

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// fakeClient keeps puts in memory. Unused KV and Lease methods panic through
// the nil embedded interfaces.
type fakeClient struct {
	clientv3.KV
	clientv3.Lease

	ttl  int64
	data map[string]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) Grant(_ context.Context, ttl int64) (*clientv3.LeaseGrantResponse, error) {
	f.ttl = ttl
	return &clientv3.LeaseGrantResponse{ID: 7, TTL: ttl}, nil
}

func (f *fakeClient) Put(_ context.Context, key, val string, _ ...clientv3.OpOption) (*clientv3.PutResponse, error) {
	f.data[key] = val
	return &clientv3.PutResponse{}, nil
}

func (f *fakeClient) KeepAlive(ctx context.Context, _ clientv3.LeaseID) (<-chan *clientv3.LeaseKeepAliveResponse, error) {
	ch := make(chan *clientv3.LeaseKeepAliveResponse)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (f *fakeClient) Get(_ context.Context, key string, _ ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	resp := &clientv3.GetResponse{}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		if strings.HasPrefix(k, key) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		resp.Kvs = append(resp.Kvs, &mvccpb.KeyValue{Key: []byte(k), Value: []byte(f.data[k])})
	}
	return resp, nil
}

func TestKey(t *testing.T) {
	if got := Key("/broadcast/nodes", "n1"); got != "/broadcast/nodes/n1" {
		t.Fatalf("Key = %q", got)
	}
	if got := Key("/broadcast/nodes/", "n1"); got != "/broadcast/nodes/n1" {
		t.Fatalf("Key with trailing slash = %q", got)
	}
}

func TestRegisterAndPeers(t *testing.T) {
	cli := newFakeClient()
	ctx := context.Background()

	for _, id := range []string{"n2", "n1"} {
		lease, cancel, err := Register(ctx, cli, "/broadcast/nodes", Entry{NodeID: id, NodeIDs: []string{"n1", "n2"}}, 10*time.Second)
		if err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
		defer cancel()
		if lease != 7 {
			t.Fatalf("lease = %d, want 7", lease)
		}
	}
	if cli.ttl != 10 {
		t.Fatalf("lease ttl = %d, want 10", cli.ttl)
	}
	if got := cli.data["/broadcast/nodes/n1"]; got != `{"node_id":"n1","node_ids":["n1","n2"]}` {
		t.Fatalf("stored value = %s", got)
	}

	peers, err := Peers(ctx, cli, "/broadcast/nodes")
	if err != nil {
		t.Fatalf("Peers: %v", err)
	}
	if !slices.Equal(peers, []string{"n1", "n2"}) {
		t.Fatalf("Peers = %v", peers)
	}
}
