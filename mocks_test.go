package auth_test

import (
	"context"
	"mime/multipart"
	"time"

	auth "github.com/goliatone/go-jwt-auth"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
)

// MockConfig implements auth.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, identifier, password string) (string, error) {
	args := m.Called(ctx, identifier, password)
	return args.String(0), args.Error(1)
}

// MockRegistry implements auth.AccountRegistrerer
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) RegisterUser(ctx context.Context, username, password string) (*auth.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

// MockLoginPayload implements auth.LoginPayload
type MockLoginPayload struct {
	Identifier string
	Password   string
}

func (m MockLoginPayload) GetIdentifier() string {
	return m.Identifier
}

func (m MockLoginPayload) GetPassword() string {
	return m.Password
}

// memStore is an in memory auth.UserStore
type memStore struct {
	users map[string]*auth.User
}

func newMemStore(users ...*auth.User) *memStore {
	s := &memStore{users: map[string]*auth.User{}}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *memStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, auth.ErrIdentityNotFound
}

// MockContext mocks router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	file, _ := args.Get(0).(*multipart.FileHeader)
	return file, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

// bearerContext carries real request state so middleware can be driven
// end to end: headers feed the gate, locals and the standard context
// receive what it publishes. Unoverridden methods fall through to the
// embedded MockContext.
type bearerContext struct {
	*MockContext
	ctx        context.Context
	headers    map[string]string
	locals     map[any]any
	nextCalled bool
	jsonCode   int
}

func newBearerContext(authorization string) *bearerContext {
	bc := &bearerContext{
		MockContext: new(MockContext),
		ctx:         context.Background(),
		headers:     map[string]string{},
		locals:      map[any]any{},
	}
	if authorization != "" {
		bc.headers[router.HeaderAuthorization] = authorization
	}
	return bc
}

func (b *bearerContext) Next() error {
	b.nextCalled = true
	return nil
}

func (b *bearerContext) Context() context.Context {
	return b.ctx
}

func (b *bearerContext) SetContext(ctx context.Context) {
	b.ctx = ctx
}

func (b *bearerContext) GetString(key string, defaultValue string) string {
	if v, ok := b.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (b *bearerContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		b.locals[key] = value[0]
		return nil
	}
	return b.locals[key]
}

func (b *bearerContext) JSON(code int, val any) error {
	b.jsonCode = code
	return nil
}

// capturingLogger records the messages routed to each level
type capturingLogger struct {
	debugs []string
	infos  []string
	warns  []string
	errs   []string
}

func (c *capturingLogger) Debug(format string, args ...any) { c.debugs = append(c.debugs, format) }
func (c *capturingLogger) Info(format string, args ...any) { c.infos = append(c.infos, format) }
func (c *capturingLogger) Warn(format string, args ...any) { c.warns = append(c.warns, format) }
func (c *capturingLogger) Error(format string, args ...any) { c.errs = append(c.errs, format) }
