package store

import "github.com/brevdev/known-hosts-edit/pkg/config"

type BasicStore struct {
	config config.AllConfig
}

func NewBasicStore(cfg config.AllConfig) *BasicStore {
	return &BasicStore{config: cfg}
}
