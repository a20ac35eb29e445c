package exodus_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestExodus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Exodus Suite")
}
