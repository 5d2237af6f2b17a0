package ik_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestIK(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "IK Suite")
}
