// Package gql exposes the resolver layer as a GraphQL schema served over
// HTTP. The schema is hand-written with graphql-go; operation and argument
// names match the surface consumed by the web client.
package gql

import (
	"errors"
	"mime/multipart"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"inkpress/internal/middleware"
	"inkpress/internal/resolver"
)

// Upload is the value carried by the Upload scalar: one file from a
// multipart GraphQL request.
type Upload struct {
	File     multipart.File
	Filename string
}

// errUnauthenticated is returned as a GraphQL error when a protected
// operation is called without a valid bearer token.
var errUnauthenticated = errors.New("unauthenticated: a valid bearer token is required")

// uploadScalar passes multipart file uploads through variable coercion
// untouched; the value is injected by the HTTP handler.
var uploadScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Upload",
	Description: "A file uploaded via a multipart GraphQL request.",
	Serialize:   func(value interface{}) interface{} { return nil },
	ParseValue:  func(value interface{}) interface{} { return value },
	ParseLiteral: func(valueAST ast.Value) interface{} {
		// Uploads can only arrive through variables, never inline literals.
		return nil
	},
})

// NewSchema wires the resolvers into the executable schema.
func NewSchema(categories *resolver.Category, posts *resolver.Post, files *resolver.File, accounts *resolver.Auth) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"_id":         &graphql.Field{Type: graphql.ID},
			"email":       &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"totpEnabled": &graphql.Field{Type: graphql.Boolean},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"updatedAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"_id":         &graphql.Field{Type: graphql.ID},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"author":      &graphql.Field{Type: userType},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"updatedAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"_id":         &graphql.Field{Type: graphql.ID},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"content":     &graphql.Field{Type: graphql.String},
			"thumbnail":   &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: categoryType},
			"author":      &graphql.Field{Type: userType},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"updatedAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	// posts is added after postType exists to break the circular reference.
	categoryType.AddFieldConfig("posts", &graphql.Field{Type: graphql.NewList(postType)})

	fileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "File",
		Fields: graphql.Fields{
			"name": &graphql.Field{Type: graphql.String},
			"url":  &graphql.Field{Type: graphql.String},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.String},
			"user":  &graphql.Field{Type: userType},
		},
	})

	twoFactorSetupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TwoFactorSetup",
		Fields: graphql.Fields{
			"secret": &graphql.Field{Type: graphql.String},
			"url":    &graphql.Field{Type: graphql.String},
			"qrCode": &graphql.Field{Type: graphql.String},
		},
	})

	envelopeFields := func(dataType graphql.Output) graphql.Fields {
		return graphql.Fields{
			"success": &graphql.Field{Type: graphql.Boolean},
			"msg":     &graphql.Field{Type: graphql.String},
			"data":    &graphql.Field{Type: dataType},
		}
	}

	categoryResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "CategoryObjectResponse",
		Fields: envelopeFields(categoryType),
	})
	categoryArrResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "CategoryArrResponse",
		Fields: envelopeFields(graphql.NewList(categoryType)),
	})
	postResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "PostObjectResponse",
		Fields: envelopeFields(postType),
	})
	postArrResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "PostArrResponse",
		Fields: envelopeFields(graphql.NewList(postType)),
	})
	fileArrResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "FileArrResponse",
		Fields: envelopeFields(graphql.NewList(fileType)),
	})
	fileResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "FileObjectResponse",
		Fields: envelopeFields(graphql.String), // data is the public URL
	})
	userResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "UserObjectResponse",
		Fields: envelopeFields(userType),
	})
	authResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "AuthResponse",
		Fields: envelopeFields(authPayloadType),
	})
	twoFactorResponse := graphql.NewObject(graphql.ObjectConfig{
		Name:   "TwoFactorSetupResponse",
		Fields: envelopeFields(twoFactorSetupType),
	})
	statusResponse := graphql.NewObject(graphql.ObjectConfig{
		Name: "StatusResponse",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.Boolean},
			"msg":     &graphql.Field{Type: graphql.String},
		},
	})

	registerInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RegisterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	loginInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"totpCode": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	createCategoryInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	updateCategoryInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"_id":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	createPostInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"content":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"thumbnail":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"cateId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getAllCategories": &graphql.Field{
				Type: categoryArrResponse,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return categories.List(ident.UserID), nil
				},
			},
			"getCategoryById": &graphql.Field{
				Type: categoryResponse,
				Args: graphql.FieldConfigArgument{
					"_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return categories.Get(idArg(p, "_id"), ident.UserID), nil
				},
			},
			"getAllPosts": &graphql.Field{
				Type: postArrResponse,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return posts.List(ident.UserID), nil
				},
			},
			"getPostById": &graphql.Field{
				Type: postResponse,
				Args: graphql.FieldConfigArgument{
					"_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return posts.Get(idArg(p, "_id"), ident.UserID), nil
				},
			},
			"getPostsByCategoryId": &graphql.Field{
				Type: postArrResponse,
				Args: graphql.FieldConfigArgument{
					"cateId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return posts.ListByCategory(idArg(p, "cateId"), ident.UserID), nil
				},
			},
			"getAllFiles": &graphql.Field{
				Type: fileArrResponse,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := requireIdentity(p); err != nil {
						return nil, err
					}
					return files.List(), nil
				},
			},
			"me": &graphql.Field{
				Type: userResponse,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return accounts.Me(ident.UserID), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: userResponse,
				Args: graphql.FieldConfigArgument{
					"RegisterInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputArg(p, "RegisterInput")
					return accounts.Register(
						stringField(in, "email"),
						stringField(in, "password"),
						stringField(in, "name"),
					), nil
				},
			},
			"login": &graphql.Field{
				Type: authResponse,
				Args: graphql.FieldConfigArgument{
					"LoginInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputArg(p, "LoginInput")
					return accounts.Login(
						stringField(in, "email"),
						stringField(in, "password"),
						stringField(in, "totpCode"),
					), nil
				},
			},
			"logout": &graphql.Field{
				Type: statusResponse,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return accounts.Logout(p.Context, ident.Token, ident.ExpiresAt), nil
				},
			},
			"setupTwoFactor": &graphql.Field{
				Type: twoFactorResponse,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return accounts.SetupTwoFactor(ident.UserID), nil
				},
			},
			"verifyTwoFactor": &graphql.Field{
				Type: statusResponse,
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					code, _ := p.Args["code"].(string)
					return accounts.VerifyTwoFactor(ident.UserID, code), nil
				},
			},
			"createCategory": &graphql.Field{
				Type: categoryResponse,
				Args: graphql.FieldConfigArgument{
					"CreateCategoryInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createCategoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					in := inputArg(p, "CreateCategoryInput")
					return categories.Create(
						stringField(in, "title"),
						stringField(in, "description"),
						ident.UserID,
					), nil
				},
			},
			"updateCategory": &graphql.Field{
				Type: categoryResponse,
				Args: graphql.FieldConfigArgument{
					"UpdateCategoryInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateCategoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					in := inputArg(p, "UpdateCategoryInput")
					return categories.Update(
						stringField(in, "_id"),
						stringField(in, "title"),
						stringField(in, "description"),
						ident.UserID,
					), nil
				},
			},
			"updateStatusCategory": &graphql.Field{
				Type: categoryResponse,
				Args: graphql.FieldConfigArgument{
					"_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return categories.ToggleStatus(idArg(p, "_id"), ident.UserID), nil
				},
			},
			"removeCategory": &graphql.Field{
				Type: categoryResponse,
				Args: graphql.FieldConfigArgument{
					"_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					return categories.Remove(idArg(p, "_id"), ident.UserID), nil
				},
			},
			"createPost": &graphql.Field{
				Type: postResponse,
				Args: graphql.FieldConfigArgument{
					"CreatePostInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createPostInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ident, err := requireIdentity(p)
					if err != nil {
						return nil, err
					}
					in := inputArg(p, "CreatePostInput")
					return posts.Create(
						stringField(in, "title"),
						optionalStringField(in, "description"),
						stringField(in, "content"),
						stringField(in, "thumbnail"),
						stringField(in, "cateId"),
						ident.UserID,
					), nil
				},
			},
			"singleUpload": &graphql.Field{
				Type: fileResponse,
				Args: graphql.FieldConfigArgument{
					"file": &graphql.ArgumentConfig{Type: graphql.NewNonNull(uploadScalar)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := requireIdentity(p); err != nil {
						return nil, err
					}
					upload, found := p.Args["file"].(*Upload)
					if !found {
						return nil, errors.New("no file provided")
					}
					defer upload.File.Close()
					return files.Upload(upload.Filename, upload.File), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// requireIdentity enforces per-operation authentication, the GraphQL
// equivalent of the auth middleware applied to every protected operation.
func requireIdentity(p graphql.ResolveParams) (*middleware.Identity, error) {
	ident := middleware.IdentityFromCtx(p.Context)
	if ident == nil {
		return nil, errUnauthenticated
	}
	return ident, nil
}

// inputArg extracts a named input-object argument as a map.
func inputArg(p graphql.ResolveParams, name string) map[string]interface{} {
	in, _ := p.Args[name].(map[string]interface{})
	return in
}

// idArg extracts a named ID argument as a string.
func idArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

// stringField reads a string field from an input map.
func stringField(in map[string]interface{}, key string) string {
	v, _ := in[key].(string)
	return v
}

// optionalStringField reads a nullable string field from an input map.
func optionalStringField(in map[string]interface{}, key string) *string {
	if v, found := in[key].(string); found {
		return &v
	}
	return nil
}
