//go:build !release

package config

const defaultValidation = true
