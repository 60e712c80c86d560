// Package registry announces initialised nodes in etcd so that operators can
// see which node ids are live. Registration is advisory; the protocol never
// reads it back.
package registry

import (
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Client is the part of *clientv3.Client the registry uses.
type Client interface {
	clientv3.KV
	clientv3.Lease
}

// Entry is the value stored under a node's key.
type Entry struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

func NewClient(endpoints []string) (*clientv3.Client, error) {
	return clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
}

func Key(prefix, id string) string {
	return path.Join(prefix, id)
}

// Register stores e under prefix with a lease of ttl and keeps the lease
// alive until the returned cancel func is called.
func Register(ctx context.Context, cli Client, prefix string, e Entry, ttl time.Duration) (clientv3.LeaseID, context.CancelFunc, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return 0, nil, err
	}
	lease, err := cli.Grant(ctx, int64(ttl/time.Second))
	if err != nil {
		return 0, nil, errors.Wrap(err, "grant lease")
	}
	if _, err := cli.Put(ctx, Key(prefix, e.NodeID), string(val), clientv3.WithLease(lease.ID)); err != nil {
		return 0, nil, errors.Wrapf(err, "put %s", Key(prefix, e.NodeID))
	}

	kaCtx, cancel := context.WithCancel(context.Background())
	ch, err := cli.KeepAlive(kaCtx, lease.ID)
	if err != nil {
		cancel()
		return 0, nil, errors.Wrap(err, "keep lease alive")
	}
	go func() {
		for range ch {
		}
	}()
	return lease.ID, cancel, nil
}

// Peers lists the node ids currently registered under prefix.
func Peers(ctx context.Context, cli Client, prefix string) ([]string, error) {
	resp, err := cli.Get(ctx, strings.TrimSuffix(prefix, "/")+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, errors.Wrap(err, "list peers")
	}
	ids := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var e Entry
		if err := json.Unmarshal(kv.Value, &e); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kv.Key)
		}
		ids = append(ids, e.NodeID)
	}
	return ids, nil
}
