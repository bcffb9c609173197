package respcache

// KVCache is the interface FSCache satisfies; a future shared backend
// (Redis, memcached) could sit behind it without touching call sites that
// only depend on Get/Set.
type KVCache interface {
	Get(source, key string) ([]byte, bool)
	Set(source, key string, class EndpointClass, body []byte)
}

var _ KVCache = (*FSCache)(nil)
