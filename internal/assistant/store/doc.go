// Package store provides the assistant's storage backends: the Milvus
// product vector index, the MySQL catalog and order reads, and the
// optional Redis session store.
package store
