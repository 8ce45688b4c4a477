package validation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/core/common/validation"
)

var _ = Describe("ValidationBuilder", func() {
	It("passes when every required field is present", func() {
		v := validation.NewValidator(errors.ErrMissingParameters)
		v.Field("order_id", "order_1").Required()
		v.Field("payment_id", "pay_1").Required()

		Expect(v.Validate()).To(BeNil())
	})

	It("reports each missing field under the base error", func() {
		v := validation.NewValidator(errors.ErrMissingParameters)
		v.Field("order_id", "").Required()
		v.Field("payment_id", "   ").Required()
		v.Field("signature", "abc").Required()

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Code).To(Equal(errors.ErrCodeMissingParameters))

		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
		Expect(details.Errors[0].Field).To(Equal("order_id"))
		Expect(details.Errors[1].Field).To(Equal("payment_id"))
		Expect(errors.ErrMissingParameters.Details).To(BeNil())
	})

	It("treats nil pointers as missing", func() {
		var s *string
		v := validation.NewValidator(errors.ErrMissingParameters)
		v.Field("receipt", s).Required()

		Expect(v.Validate()).NotTo(BeNil())
	})
})
