/*
Package codec converts between JSON documents and domain.MatrixSet.

The persisted shape is a single object holding the matrices:

	{"datas":[{"m00":1,"m01":0, ... ,"m33":1}, ...]}

Input resources are usually bare arrays. They are wrapped into the object
shape before parsing, so both forms decode to the same set.

Parsing is done field by field (no reflection): every entry must carry all
sixteen mRC fields, unknown fields are ignored.
*/
package codec
