// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

//go:build integration

package auth_test

import (
	"fmt"
	"net/http"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/taskshare/taskshare/internal/auth"
	"github.com/taskshare/taskshare/internal/httpapi"
)

var _ = Describe("Account API", func() {
	Describe("sign-up", func() {
		It("creates a user with a normalized email and no password in the response", func() {
			b := newBrowser()
			r := b.do(http.MethodPost, "/auth/signup", signUpBody("Ada", "Ada@Example.COM", "secret1"))

			Expect(r.status).To(Equal(http.StatusCreated), r.rawBody)
			Expect(r.body["email"]).To(Equal("ada@example.com"))
			Expect(r.body).NotTo(HaveKey("password_hash"))
			Expect(r.rawBody).NotTo(ContainSubstring("$2a$"))
			Expect(b.hasSession()).To(BeFalse(), "sign-up does not log in")
		})

		It("rejects a second account with the same email", func() {
			b := newBrowser()
			Expect(b.do(http.MethodPost, "/auth/signup", signUpBody("Ada", "ada@example.com", "secret1")).status).
				To(Equal(http.StatusCreated))

			r := b.do(http.MethodPost, "/auth/signup", signUpBody("Imposter", "ADA@example.com", "secret2"))
			Expect(r.status).To(Equal(http.StatusForbidden))
			Expect(r.errorCode()).To(Equal(auth.CodeDuplicateEmail))

			users, err := env.users.List(env.ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
		})

		It("lets exactly one of many concurrent sign-ups win", func() {
			const attempts = 6
			statuses := make([]int, attempts)
			var wg sync.WaitGroup
			for i := range attempts {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					r := newBrowser().do(http.MethodPost, "/auth/signup",
						signUpBody(fmt.Sprintf("racer-%d", i), "race@example.com", "secret1"))
					statuses[i] = r.status
				}()
			}
			wg.Wait()

			created := 0
			for _, s := range statuses {
				if s == http.StatusCreated {
					created++
				} else {
					Expect(s).To(Equal(http.StatusForbidden))
				}
			}
			Expect(created).To(Equal(1))
		})

		It("reports validation failures per field", func() {
			r := newBrowser().do(http.MethodPost, "/auth/signup",
				`{"name":"A","email":"nope","password":"secret1","confirmPassword":"other12"}`)
			Expect(r.status).To(Equal(http.StatusBadRequest))
			Expect(r.errorCode()).To(Equal(auth.CodeInvalidInput))
			fields := r.body["error"].(map[string]any)["fields"]
			Expect(fields).To(HaveKey("email"))
			Expect(fields).To(HaveKey("confirmPassword"))
		})
	})

	Describe("login session", func() {
		var b *browser

		BeforeEach(func() {
			b = newBrowser()
			Expect(b.do(http.MethodPost, "/auth/signup", signUpBody("Grace", "grace@example.com", "secret1")).status).
				To(Equal(http.StatusCreated))
		})

		It("sets a session cookie that authenticates later requests", func() {
			r := b.do(http.MethodPost, "/auth/login", loginBody("GRACE@example.com", "secret1"))
			Expect(r.status).To(Equal(http.StatusOK))
			Expect(r.body).To(HaveKey("expires_at"))
			Expect(r.rawBody).NotTo(ContainSubstring("eyJ"), "the token never appears in the body")
			Expect(b.hasSession()).To(BeTrue())

			me := b.do(http.MethodGet, "/auth/me", "")
			Expect(me.status).To(Equal(http.StatusOK))
			Expect(me.body["email"]).To(Equal("grace@example.com"))
			Expect(me.body["name"]).To(Equal("Grace"))
		})

		It("answers unknown email and wrong password identically", func() {
			wrong := b.do(http.MethodPost, "/auth/login", loginBody("grace@example.com", "badpass"))
			unknown := b.do(http.MethodPost, "/auth/login", loginBody("nobody@example.com", "badpass"))

			Expect(wrong.status).To(Equal(http.StatusForbidden))
			Expect(unknown.status).To(Equal(wrong.status))
			Expect(unknown.rawBody).To(Equal(wrong.rawBody))
			Expect(b.hasSession()).To(BeFalse())
		})

		It("rejects guarded routes without a session", func() {
			for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
				r := newBrowser().do(method, "/auth/me", `{}`)
				Expect(r.status).To(Equal(http.StatusUnauthorized), method)
				Expect(r.errorCode()).To(Equal(auth.CodeSessionMissing), method)
			}
		})

		It("ends the session on logout", func() {
			Expect(b.do(http.MethodPost, "/auth/login", loginBody("grace@example.com", "secret1")).status).
				To(Equal(http.StatusOK))

			r := b.do(http.MethodDelete, "/auth/logout", "")
			Expect(r.status).To(Equal(http.StatusOK))
			Expect(r.body["message"]).To(Equal(httpapi.LoggedOutMessage))
			Expect(b.hasSession()).To(BeFalse())

			Expect(b.do(http.MethodGet, "/auth/me", "").status).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("profile management", func() {
		var b *browser

		BeforeEach(func() {
			b = newBrowser()
			Expect(b.do(http.MethodPost, "/auth/signup", signUpBody("Linus", "linus@example.com", "secret1")).status).
				To(Equal(http.StatusCreated))
			Expect(b.do(http.MethodPost, "/auth/login", loginBody("linus@example.com", "secret1")).status).
				To(Equal(http.StatusOK))
		})

		It("updates only the supplied fields and re-hashes a new password", func() {
			before, err := env.users.GetByEmail(env.ctx, "linus@example.com")
			Expect(err).NotTo(HaveOccurred())

			r := b.do(http.MethodPatch, "/auth/me", `{"introduction":"kernel person","password":"newpass1"}`)
			Expect(r.status).To(Equal(http.StatusOK), r.rawBody)
			Expect(r.body["name"]).To(Equal("Linus"))
			Expect(r.body["introduction"]).To(Equal("kernel person"))

			after, err := env.users.GetByEmail(env.ctx, "linus@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(after.PasswordHash).NotTo(Equal(before.PasswordHash))
			Expect(after.PasswordHash).To(HavePrefix("$2"))

			other := newBrowser()
			Expect(other.do(http.MethodPost, "/auth/login", loginBody("linus@example.com", "secret1")).status).
				To(Equal(http.StatusForbidden))
			Expect(other.do(http.MethodPost, "/auth/login", loginBody("linus@example.com", "newpass1")).status).
				To(Equal(http.StatusOK))
		})

		It("refuses to take another user's email", func() {
			Expect(newBrowser().do(http.MethodPost, "/auth/signup", signUpBody("Other", "other@example.com", "secret1")).status).
				To(Equal(http.StatusCreated))

			r := b.do(http.MethodPatch, "/auth/me", `{"email":"OTHER@example.com"}`)
			Expect(r.status).To(Equal(http.StatusForbidden))
			Expect(r.errorCode()).To(Equal(auth.CodeDuplicateEmail))
		})

		It("deletes the account, clears the cookie and frees the email", func() {
			r := b.do(http.MethodDelete, "/auth/me", "")
			Expect(r.status).To(Equal(http.StatusOK))
			Expect(r.body["message"]).To(Equal(auth.AccountDeletedMessage))
			Expect(b.hasSession()).To(BeFalse())

			_, err := env.users.GetByEmail(env.ctx, "linus@example.com")
			Expect(err).To(MatchError(auth.ErrNotFound))

			Expect(newBrowser().do(http.MethodPost, "/auth/signup", signUpBody("Linus", "linus@example.com", "secret1")).status).
				To(Equal(http.StatusCreated))
		})
	})

	Describe("public profiles", func() {
		It("lists users and fetches one profile without credentials", func() {
			b := newBrowser()
			created := b.do(http.MethodPost, "/auth/signup", signUpBody("Barbara", "barbara@example.com", "secret1"))
			Expect(created.status).To(Equal(http.StatusCreated))
			id := int64(created.body["id"].(float64))

			list := b.do(http.MethodGet, "/users", "")
			Expect(list.status).To(Equal(http.StatusOK))
			Expect(list.rawBody).To(ContainSubstring("barbara@example.com"))
			Expect(list.rawBody).NotTo(ContainSubstring("$2a$"))

			profile := b.do(http.MethodGet, fmt.Sprintf("/users/%d/profile", id), "")
			Expect(profile.status).To(Equal(http.StatusOK))
			Expect(profile.body["name"]).To(Equal("Barbara"))

			missing := b.do(http.MethodGet, fmt.Sprintf("/users/%d/profile", id+100), "")
			Expect(missing.status).To(Equal(http.StatusNotFound))
		})
	})

	Describe("instrumentation", func() {
		It("counts auth outcomes by error code", func() {
			login := env.metrics.AuthOperations.WithLabelValues("login", auth.CodeInvalidCredentials)
			before := testutil.ToFloat64(login)

			newBrowser().do(http.MethodPost, "/auth/login", loginBody("ghost@example.com", "secret1"))

			Expect(testutil.ToFloat64(login)).To(Equal(before + 1))
		})

		It("echoes CORS headers for allowed origins only", func() {
			req, err := http.NewRequestWithContext(env.ctx, http.MethodOptions, env.server.URL+"/auth/login", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Origin", "https://app.taskshare.test")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			resp, err := newBrowser().client.Do(req)
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("https://app.taskshare.test"))
			Expect(resp.Header.Get("Access-Control-Allow-Credentials")).To(Equal("true"))
		})
	})
})
